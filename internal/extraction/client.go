package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"

	"github.com/invopop/jsonschema"
	localschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// systemPrompt carries the domain rules the model must apply: internal vs.
// external invoice classification by the registration markers printed on
// internal invoices, and the decoy-ICE disambiguation rule.
const systemPrompt = `You are a specialized invoice processing AI. You have been trained to extract information from invoices for the profit of Al inside Private S.A.R.L. You will extract information from the given invoice and output the information in json format. Make sure that each information goes to the correct field in the json output.You can handle external and internal invoices. the main difference is that internal invoices contain values " RC N': 50543 l.F:26185261 T.P : 20800463 " on the top left corner of the invoice. when these values are found it is an internal invoice and you are required to return the customer name and ice of the customer. Never return AI-INSIDE PRIVATE SARL as a customer. On external invoices, you are required to return the supplier name and ice of the supplier.
There are usually two ICE numbers one for the supplier and one for the client which is 002150760000076 is the wrong ice. Find the ICE for supplier or the customer never return the wrong ICE number (002150760000076). when only one is found, it is the wrong one. return 00000 instead. the postal code is usually found within the address of the supplier or the customer.`

const userPrompt = "Analyze the given invoice and extract relevant data in the correct format. "

// Extractor turns a base64-encoded document image into a validated Invoice.
type Extractor interface {
	Extract(ctx context.Context, apiKey, base64Image string) (*Invoice, error)
}

// Client calls the OpenAI Responses API with structured output constrained
// to the Invoice schema. A fresh API client is constructed per call from the
// caller's decrypted key — no key is cached between requests.
type Client struct {
	model     shared.ChatModel
	schemaMap map[string]any
	compiled  *localschema.Schema
}

// NewClient builds the Client and compiles the Invoice schema once for
// local response validation.
func NewClient() (*Client, error) {
	schemaMap, err := invoiceSchemaMap()
	if err != nil {
		return nil, fmt.Errorf("build invoice schema: %w", err)
	}
	compiled, err := compileSchema(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("compile invoice schema: %w", err)
	}
	return &Client{
		model:     shared.ChatModelGPT4o,
		schemaMap: schemaMap,
		compiled:  compiled,
	}, nil
}

// Extract submits one document image and decodes the structured response.
// Returns ErrMissingInput when no image is supplied and *UpstreamError when
// the call fails or the response does not satisfy the invoice schema.
// No retry is performed — a failure is terminal for the document.
func (c *Client) Extract(ctx context.Context, apiKey, base64Image string) (*Invoice, error) {
	if base64Image == "" {
		return nil, ErrMissingInput
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	params := responses.ResponseNewParams{
		Model:        shared.ResponsesModel(c.model),
		Instructions: param.NewOpt(systemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemUnionParam{
					OfMessage: &responses.EasyInputMessageParam{
						Role: responses.EasyInputMessageRoleUser,
						Content: responses.EasyInputMessageContentUnionParam{
							OfInputItemContentList: responses.ResponseInputMessageContentListParam{
								responses.ResponseInputContentUnionParam{
									OfInputText: &responses.ResponseInputTextParam{Text: userPrompt},
								},
								responses.ResponseInputContentUnionParam{
									OfInputImage: &responses.ResponseInputImageParam{
										ImageURL: param.NewOpt("data:image/jpeg;base64," + base64Image),
										Detail:   responses.ResponseInputImageDetailHigh,
									},
								},
							},
						},
					},
				},
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "invoice_extraction",
					Strict:      param.NewOpt(true),
					Schema:      c.schemaMap,
					Description: param.NewOpt("Structured data extracted from an invoice document"),
				},
			},
		},
	}

	resp, err := client.Responses.New(ctx, params)
	if err != nil {
		return nil, &UpstreamError{Detail: "responses call failed", Err: err}
	}

	content := resp.OutputText()
	if content == "" {
		return nil, &UpstreamError{Detail: "empty response content"}
	}

	inv, err := c.decode([]byte(content))
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// decode validates model output against the invoice schema, parses it with
// defaults, then applies normalization and the fatal invariant checks.
func (c *Client) decode(content []byte) (*Invoice, error) {
	var raw any
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, &UpstreamError{Detail: "response is not valid JSON", Err: err}
	}
	if err := c.compiled.Validate(raw); err != nil {
		return nil, &UpstreamError{Detail: "response does not match invoice schema", Err: err}
	}

	inv, err := ParseInvoice(content)
	if err != nil {
		return nil, &UpstreamError{Detail: "response could not be decoded", Err: err}
	}

	inv.Normalize()
	if err := inv.Validate(); err != nil {
		return nil, &UpstreamError{Detail: "invoice validation failed", Err: err}
	}
	return inv, nil
}

// invoiceSchemaMap reflects the Invoice struct into a JSON-schema map for
// the structured-output constraint and local validation. The three total
// fields are made nullable: absence must survive as null, never be computed.
func invoiceSchemaMap() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaJSON, err := json.Marshal(reflector.Reflect(Invoice{}))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("unmarshal schema to map: %w", err)
	}

	props, ok := schemaMap["properties"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("reflected schema has no properties")
	}
	for _, field := range []string{"total_amount_ht", "total_vat_amount", "total_amount_ttc"} {
		prop, ok := props[field].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("reflected schema is missing %s", field)
		}
		prop["type"] = []any{"number", "null"}
	}
	return schemaMap, nil
}

func compileSchema(schemaMap map[string]any) (*localschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := localschema.NewCompiler()
	if err := compiler.AddResource("invoice.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile("invoice.json")
}
