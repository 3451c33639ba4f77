package resource

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: h.def.Name + "-list",
		Method:      http.MethodGet,
		Path:        h.def.Path,
		Summary:     "List " + h.def.Name,
		Tags:        []string{h.def.Name},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: h.def.Name + "-create",
		Method:      http.MethodPost,
		Path:        h.def.Path,
		Summary:     "Create a " + h.def.Name + " row",
		Tags:        []string{h.def.Name},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: h.def.Name + "-get",
		Method:      http.MethodGet,
		Path:        h.def.Path + "/{id}",
		Summary:     "Get one " + h.def.Name + " row",
		Tags:        []string{h.def.Name},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: h.def.Name + "-update",
		Method:      http.MethodPut,
		Path:        h.def.Path + "/{id}",
		Summary:     "Update a " + h.def.Name + " row",
		Tags:        []string{h.def.Name},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID:   h.def.Name + "-delete",
		Method:        http.MethodDelete,
		Path:          h.def.Path + "/{id}",
		Summary:       "Delete a " + h.def.Name + " row",
		Tags:          []string{h.def.Name},
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
		DefaultStatus: http.StatusNoContent,
	}
}
