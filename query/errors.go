package query

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/Najnomics/multihook-adapter/core"
)

func queryDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.AdapterErrorInternal)
}

func queryNotFoundError(message string) error {
	return goerrors.New(message, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(core.AdapterErrorBadInput)
}
