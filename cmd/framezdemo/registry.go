package main

import "context"

// Scenario is one runnable demonstration of the engine.
type Scenario interface {
	Name() string
	Description() string
	Run(ctx context.Context) error
}

func getAllScenarios() []Scenario {
	return []Scenario{
		&identityScenario{},
		&chainScenario{},
		&makeLinearScenario{},
		&singleThreadedScenario{},
		&failureCascadeScenario{},
		&shutdownScenario{},
	}
}

func getScenarioByName(name string) (Scenario, bool) {
	for _, s := range getAllScenarios() {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}
