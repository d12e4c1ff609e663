package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jmespath/go-jmespath"
)

// printJSON writes v as indented JSON, narrowed by a JMESPath expression when query is set.
func printJSON(w io.Writer, v any, query string) error {
	var out any = v
	if query != "" {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return err
		}

		jp, err := jmespath.Compile(query)
		if err != nil {
			return fmt.Errorf("invalid JMESPath expression '%s': %w", query, err)
		}
		out, err = jp.Search(data)
		if err != nil {
			return fmt.Errorf("JMESPath search failed: %w", err)
		}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
