package fundselling

// ScenarioReport gathers everything persisted about a scenario: the assets,
// their sale configuration and their last result.
type ScenarioReport struct {
	Scenario string        `json:"scenario"`
	Assets   []AssetReport `json:"assets"`
	Totals
}

// AssetReport is one asset line of a ScenarioReport.
type AssetReport struct {
	Asset
	TotalValue float64 `json:"totalValue"`
	// Simulated is false when no result has been persisted in the scenario,
	// the totals are zero then.
	Simulated     bool           `json:"simulated"`
	Configuration *Configuration `json:"configuration,omitempty"`
	Result        *Result        `json:"result,omitempty"`
	Totals
}

// Report builds the report of the active scenario.
//
// Like Aggregate it reads the last persisted results, nothing is recomputed.
func (s *Session) Report() (*ScenarioReport, error) {
	if err := s.requireScenario(); err != nil {
		return nil, err
	}
	reg, err := s.store.DecodeAssets()
	if err != nil {
		return nil, err
	}

	rep := &ScenarioReport{Scenario: s.scenario, Assets: make([]AssetReport, 0, reg.Len())}
	for a := range reg.Assets() {
		line := AssetReport{Asset: a, TotalValue: a.TotalValue()}

		c, found, err := s.store.DecodeConfiguration(s.scenario, a.Name)
		if err != nil {
			return nil, err
		}
		if found {
			line.Configuration = &c
		}

		res, found, err := s.store.DecodeResult(s.scenario, a.Name)
		if err != nil {
			return nil, err
		}
		if found {
			line.Simulated = true
			line.Result = &res
			line.Totals = res.Totals()
		}
		rep.Totals = rep.Totals.Add(line.Totals)
		rep.Assets = append(rep.Assets, line)
	}
	return rep, nil
}

// SaleReport is the sale of one asset in a scenario.
type SaleReport struct {
	Scenario      string        `json:"scenario"`
	Asset         Asset         `json:"asset"`
	Configuration Configuration `json:"configuration"`
	Result        Result        `json:"result"`
	// Simulated is false when no result has been persisted, Result is then a
	// preview computed from Configuration.
	Simulated bool `json:"simulated"`
}

// Sale returns the sale of an asset in the active scenario: its
// configuration and its last persisted result, or a preview if the sale was
// never simulated. Nothing is written.
func (s *Session) Sale(name string) (*SaleReport, error) {
	a, err := s.asset(name)
	if err != nil {
		return nil, err
	}
	c, err := s.LoadConfiguration(name)
	if err != nil {
		return nil, err
	}
	res, found, err := s.store.DecodeResult(s.scenario, name)
	if err != nil {
		return nil, err
	}
	if !found {
		if res, err = Compute(a, c); err != nil {
			return nil, err
		}
	}
	return &SaleReport{Scenario: s.scenario, Asset: a, Configuration: c, Result: res, Simulated: found}, nil
}
