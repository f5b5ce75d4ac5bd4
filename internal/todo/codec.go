package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed items.schema.json
var itemsSchemaJSON []byte

const itemsSchemaURL = "items.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// itemJSON fixes the on-disk key names and their order.
type itemJSON struct {
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	SubItems  []*Item `json:"sub_items"`
}

// MarshalJSON encodes the item as {"title", "completed", "sub_items"}.
func (i *Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{
		Title:     i.title,
		Completed: i.completed,
		SubItems:  nonNil(i.subItems),
	})
}

// UnmarshalJSON decodes an item written by MarshalJSON.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	i.title = raw.Title
	i.completed = raw.Completed
	i.subItems = raw.SubItems
	return nil
}

// Encode renders items as a JSON array with 2-space indentation and a
// trailing newline.
func Encode(items []*Item) ([]byte, error) {
	data, err := json.MarshalIndent(nonNil(items), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses an items file. Content that is not JSON, or that has missing,
// mistyped or unknown fields, is rejected with a *DeserializeError.
func Decode(data []byte) ([]*Item, error) {
	if errs := Check(data); len(errs) > 0 {
		return nil, errs[0]
	}

	var items []*Item
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&items); err != nil {
		return nil, &DeserializeError{Err: err}
	}
	return nonNil(items), nil
}

// Check validates data against the items schema and returns every problem
// found. A nil result means Decode will accept data.
func Check(data []byte) []error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return []error{&DeserializeError{Err: err}}
	}

	schema, err := itemsSchema()
	if err != nil {
		return []error{&DeserializeError{Err: err}}
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return []error{&DeserializeError{Err: err}}
		}
		var errs []error
		collectSchemaErrors(&errs, ve)
		return errs
	}
	return nil
}

func itemsSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(itemsSchemaURL, bytes.NewReader(itemsSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load items schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(itemsSchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile items schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*errs = append(*errs, &DeserializeError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/0/sub_items/1/title" into "[0].sub_items[1].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func nonNil(items []*Item) []*Item {
	if items == nil {
		return []*Item{}
	}
	return items
}
