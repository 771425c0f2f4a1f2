package catalog

import "github.com/danielgtaylor/huma/v2"

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) op(id, method, path, summary, tag string) huma.Operation {
	return huma.Operation{
		OperationID: id,
		Method:      method,
		Path:        path,
		Summary:     summary,
		Tags:        []string{tag},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}
