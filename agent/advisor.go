package agent

import (
	"context"
	"fmt"

	"github.com/etnz/fundselling"
	"github.com/etnz/fundselling/docs"
	"github.com/etnz/fundselling/renderer"
	"google.golang.org/genai"
)

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: Declarations(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is planning the sale of assets in several steps, under several scenarios of
			price evolution. Help them compare scenarios and sale schedules.

			Devise a plan of questions to ask to each experts and come up with the best reponse to the user's request.
			Answer in markdown.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewExplainer returns the expert on how fsim works: the sale model and the
// commands.
func NewExplainer(model string) (*Expert, error) {
	manual, err := docs.GetTopic("*")
	if err != nil {
		return nil, err
	}
	return &Expert{
		Name:        "Explainer",
		Description: `This is the Explainer. It knows how the sale simulation is computed, how the data is stored, and which fsim commands the user can run.`,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{
				{Text: "You explain the fsim application to the other experts. Here is its manual:\n\n"},
				{Text: manual},
			}},
		},
	}, nil
}

// NewAnalyst returns the expert reading the user's data through s. It never
// modifies the data.
func NewAnalyst(model string, s *fundselling.Session, currency string) *Expert {
	lib := Tools(s, currency)
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It reads the user's assets, scenarios and sale simulations,
		and can preview what-if sale schedules without saving them.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: Declarations(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's sale simulations.
				You are part of a team of experts, yours is everything about the user's data.

				Use the available tools to get information about:
				  - the registered assets
				  - the scenarios
				  - the totals sold and remaining in a scenario
				  - the detail of the sale of an asset
				  - previews of alternative sale schedules
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, args map[string]any) (string, error)
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }

func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	resp := &genai.FunctionResponse{ID: id, Name: f.Decl.Name}
	out, err := f.Func(ctx, args)
	if err != nil {
		resp.Response = errorResponse(err)
		return resp
	}
	resp.Response = map[string]any{"output": out}
	return resp
}

var (
	scenarioParam = &genai.Schema{
		Type:        genai.TypeString,
		Description: "The scenario name. The user's active scenario is the default.",
	}
	assetParam = &genai.Schema{
		Type:        genai.TypeString,
		Description: "The asset name.",
	}
	markdownResponse = &genai.Schema{
		Type:        genai.TypeString,
		Description: "A markdown document.",
	}
)

// Tools returns the functions reading the user's data through s.
func Tools(s *fundselling.Session, currency string) []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Assets",
				Description: "Assets lists the registered assets with their unit price, quantity, number of sale iterations and total value.",
				Response:    markdownResponse,
			},
			Func: func(context.Context, map[string]any) (string, error) {
				reg, err := s.ListAssets()
				if err != nil {
					return "", err
				}
				return renderer.AssetsMarkdown(reg, currency), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Scenarios",
				Description: "Scenarios lists the scenarios, and which one is active.",
				Response:    markdownResponse,
			},
			Func: func(context.Context, map[string]any) (string, error) {
				names, err := s.ListScenarios()
				if err != nil {
					return "", err
				}
				return renderer.ScenariosMarkdown(names, s.Scenario()), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Summary",
				Description: "Summary returns the total sold and remaining value of each asset in a scenario, as last simulated, and the scenario totals.",
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"scenario": scenarioParam},
				},
				Response: markdownResponse,
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				in, err := inScenario(s, args)
				if err != nil {
					return "", err
				}
				rep, err := in.Report()
				if err != nil {
					return "", err
				}
				return renderer.SummaryMarkdown(rep, currency), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Sale",
				Description: "Sale returns the sale schedule of an asset in a scenario and the value sold and remaining at each iteration.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"asset":    assetParam,
						"scenario": scenarioParam,
					},
					Required: []string{"asset"},
				},
				Response: markdownResponse,
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				in, err := inScenario(s, args)
				if err != nil {
					return "", err
				}
				name, err := stringArg(args, "asset")
				if err != nil {
					return "", err
				}
				sale, err := in.Sale(name)
				if err != nil {
					return "", err
				}
				return renderer.SaleMarkdown(sale.Scenario, sale.Asset, sale.Configuration, sale.Result, currency), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name: "Preview",
				Description: `Preview computes the sale of an asset with another schedule, without saving it.
				Both lists must have one value per iteration of the asset.`,
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"asset": assetParam,
						"soldFraction": {
							Type:        genai.TypeArray,
							Items:       &genai.Schema{Type: genai.TypeNumber},
							Description: "Fraction of the remaining quantity sold at each iteration, in [0,1].",
						},
						"increaseFactor": {
							Type:        genai.TypeArray,
							Items:       &genai.Schema{Type: genai.TypeNumber},
							Description: "Price multiplier applied at each iteration before selling, non-negative.",
						},
					},
					Required: []string{"asset", "soldFraction", "increaseFactor"},
				},
				Response: markdownResponse,
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				name, err := stringArg(args, "asset")
				if err != nil {
					return "", err
				}
				var c fundselling.Configuration
				if c.SoldFraction, err = numbersArg(args, "soldFraction"); err != nil {
					return "", err
				}
				if c.IncreaseFactor, err = numbersArg(args, "increaseFactor"); err != nil {
					return "", err
				}
				if err := c.Validate(); err != nil {
					return "", err
				}
				reg, err := s.ListAssets()
				if err != nil {
					return "", err
				}
				a, ok := reg.Get(name)
				if !ok {
					return "", fmt.Errorf("%w %q", fundselling.ErrUnknownAsset, name)
				}
				res, err := fundselling.Compute(a, c)
				if err != nil {
					return "", err
				}
				return renderer.SaleMarkdown("preview", a, c, res, currency), nil
			},
		},
	}
}

// inScenario returns a session on the scenario given in args, or s.
func inScenario(s *fundselling.Session, args map[string]any) (*fundselling.Session, error) {
	v, ok := args["scenario"]
	if !ok {
		return s, nil
	}
	name, ok := v.(string)
	if !ok || name == "" || name == s.Scenario() {
		return s, nil
	}
	return fundselling.OpenSession(s.Store(), name)
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("argument %q is required and must be a string, got %T", name, args[name])
	}
	return v, nil
}

func numbersArg(args map[string]any, name string) ([]float64, error) {
	list, ok := args[name].([]any)
	if !ok {
		return nil, fmt.Errorf("argument %q must be a list of numbers, got %T", name, args[name])
	}
	values := make([]float64, 0, len(list))
	for i, v := range list {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("argument %q: item %d is not a number but %T", name, i+1, v)
		}
		values = append(values, f)
	}
	return values, nil
}
