package http

import (
	"encoding/json"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

var registerDocOnce sync.Once

// openAPIDoc serves the loaded contract to the Swagger UI.
type openAPIDoc struct {
	body string
}

func (d openAPIDoc) ReadDoc() string {
	return d.body
}

// registerDoc makes doc the document behind /swagger/doc.json. Only the first
// call of the process takes effect.
func registerDoc(doc *openapi3.T) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	registerDocOnce.Do(func() {
		swag.Register(swag.Name, openAPIDoc{body: string(body)})
	})
	return nil
}
