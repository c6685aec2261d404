package utils

import (
	"net/url"
	"strconv"
	"strings"

	"approval-system/pkg/types"
)

// ParseFilterFromQuery разбирает limit/offset/sort/filter[...] из query-строки.
func ParseFilterFromQuery(query url.Values) types.Filter {
	filter := types.Filter{
		Sort:           make(map[string]string),
		Filter:         make(map[string]interface{}),
		Limit:          10,
		Offset:         0,
		WithPagination: true,
	}

	for key, values := range query {
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") && len(values) > 0 {
			filterKey := key[7 : len(key)-1]
			filter.Filter[filterKey] = values[0]
		}
		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") && len(values) > 0 {
			sortKey := key[5 : len(key)-1]
			filter.Sort[sortKey] = values[0]
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filter.Limit = l
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filter.Offset = o
		}
	}
	if search := query.Get("search"); search != "" {
		filter.Search = search
	}

	return filter
}
