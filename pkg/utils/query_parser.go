package utils

import (
	"net/url"
	"strconv"
)

type QueryParams struct {
	Limit  uint64
	Offset uint64
	Page   uint64
}

// ParseQuery разбирает пагинацию из query-строки: limit/offset,
// либо page при незаданном offset.
func ParseQuery(query url.Values) QueryParams {
	params := QueryParams{
		Limit:  50,
		Offset: 0,
		Page:   1,
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.ParseUint(limitStr, 10, 64); err == nil && l > 0 {
			params.Limit = l
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.ParseUint(offsetStr, 10, 64); err == nil {
			params.Offset = o
			if params.Limit > 0 {
				params.Page = (o / params.Limit) + 1
			}
		}
	}
	// page имеет приоритет только если offset не задан
	if pageStr := query.Get("page"); pageStr != "" && params.Offset == 0 {
		if p, err := strconv.ParseUint(pageStr, 10, 64); err == nil && p > 0 {
			params.Page = p
			params.Offset = (p - 1) * params.Limit
		}
	}

	return params
}
