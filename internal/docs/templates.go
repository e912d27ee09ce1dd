package docs

import (
	"strings"
	"text/template"
)

// templateFuncs returns template helper functions
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"toLower":  strings.ToLower,
		"toPascal": toPascalCase,
		"toCamel":  toCamelCase,
	}
}

// toPascalCase converts snake_case to PascalCase (funding_rate -> FundingRate)
func toPascalCase(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}

// toCamelCase converts snake_case to camelCase (funding_rate -> fundingRate)
func toCamelCase(s string) string {
	p := toPascalCase(s)
	if p == "" {
		return p
	}
	return strings.ToLower(p[:1]) + p[1:]
}

const apiPageTemplate = `# {{.API.Title}}

` + "`client.{{toPascal .API.Name}}API`" + ` on ` + "`*{{.Package}}.APIClient`" + ` gives access to the Hyblock Capital {{toLower .API.Title}}.

## Configuration

` + "```go" + `
import (
	"context"
	"os"

	"{{.ImportPath}}"
)

cfg := {{.Package}}.NewConfiguration()
cfg.Servers = {{.Package}}.ServerConfigurations{
	{URL: "{{.BaseURL}}"},
}
client := {{.Package}}.NewAPIClient(cfg)

ctx := context.WithValue(context.Background(), {{.Package}}.ContextAPIKeys,
	map[string]{{.Package}}.APIKey{
		"{{.APIKeyHeader}}": {Key: os.Getenv("HYBLOCK_API_KEY")},
	})
{{toCamel .API.Name}}API := client.{{toPascal .API.Name}}API
` + "```" + `

## API Reference

See ` + "`{{.SourceFile}}`" + ` in the generated package, or run:

` + "```sh" + `
go doc {{.ImportPath}}.{{toPascal .API.Name}}APIService
` + "```" + `

## Usage Example

` + "```go" + `
// Replace Method with an operation of {{toPascal .API.Name}}APIService.
result, resp, err := {{toCamel .API.Name}}API.Method(ctx).Coin("BTC").Execute()
if err != nil {
	log.Printf("request failed: %v", err)
	return
}
defer resp.Body.Close()
fmt.Printf("result: %+v\n", result)
` + "```" + `

## Error Handling

` + "```go" + `
_, resp, err := {{toCamel .API.Name}}API.Method(ctx).Execute()
if err != nil {
	var apiErr *{{.Package}}.GenericOpenAPIError
	if errors.As(err, &apiErr) && resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			log.Print("invalid credentials")
		case http.StatusTooManyRequests:
			log.Printf("rate limited, retry after %s", resp.Header.Get("Retry-After"))
		default:
			log.Printf("api error: %d %s", resp.StatusCode, apiErr.Body())
		}
	}
}
` + "```" + `

See the reference above for the operations this API provides.
`

const modelsPageTemplate = `# Models

Models are the data structures used by the Hyblock Capital SDK. They are
generated from the OpenAPI document and are returned by the API services;
most code never constructs them directly.

## Reference

` + "```sh" + `
go doc -all {{.ImportPath}} | less
` + "```" + `

Model sources live in ` + "`model_*.go`" + `{{if .ModelFiles}}:
{{range .ModelFiles}}
- ` + "`{{.}}`" + `{{end}}{{else}}.{{end}}

## Usage Example

` + "```go" + `
levels, _, err := client.LiquidityAPI.LiquidationLevels(ctx).Coin("BTC").Execute()
if err != nil {
	return err
}
for _, l := range levels {
	fmt.Println(l.GetPrice(), l.GetSize(), l.GetLeverage())
}
` + "```" + `
`

const errorsPageTemplate = `# Errors

Failed calls return ` + "`*{{.Package}}.GenericOpenAPIError`" + ` together with the raw
` + "`*http.Response`" + `. The status code classifies the failure.

## Handling Errors

` + "```go" + `
_, resp, err := client.CatalogAPI.Catalog(ctx).Execute()
if err != nil {
	var apiErr *{{.Package}}.GenericOpenAPIError
	if !errors.As(err, &apiErr) || resp == nil {
		return fmt.Errorf("transport: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("bad request: %s", apiErr.Body())
	case http.StatusUnauthorized:
		return errors.New("invalid credentials")
	case http.StatusForbidden:
		return errors.New("not permitted for this endpoint")
	case http.StatusNotFound:
		return errors.New("resource not found")
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limited, retry after %s", resp.Header.Get("Retry-After"))
	default:
		return fmt.Errorf("api error: %d %s", resp.StatusCode, apiErr.Body())
	}
}
` + "```" + `

## HTTP Status Codes
{{range .Statuses}}
- **{{.Code}}**: {{.Text}}{{end}}
`
