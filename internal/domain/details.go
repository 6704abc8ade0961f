package domain

// ContractWithDetails is a contract joined with its client and plan, as
// produced by the aggregation lookup.
type ContractWithDetails struct {
	Contract `bson:",inline"`
	Client   Client       `bson:"client" json:"client"`
	Plan     TrainingPlan `bson:"plan" json:"plan"`
}

// ClientWithContracts is a client joined with every contract that
// references it.
type ClientWithContracts struct {
	Client    `bson:",inline"`
	Contracts []Contract `bson:"contracts" json:"contracts"`
}

// PlanWithClients is a training plan joined with its contracts and the
// clients signed to them.
type PlanWithClients struct {
	TrainingPlan `bson:",inline"`
	Contracts    []Contract `bson:"contracts" json:"contracts"`
	Clients      []Client   `bson:"clients" json:"clients"`
}
