package todo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// CollectionSchema is the JSON Schema a stored collection must satisfy.
// Unknown record fields are allowed; id is optional for legacy records.
const CollectionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "tudu task collection",
  "type": ["array", "null"],
  "items": {
    "type": "object",
    "required": ["text"],
    "properties": {
      "id":   {"type": "string"},
      "text": {"type": "string"},
      "done": {"type": ["boolean", "number", "null"]}
    }
  }
}`

var collectionSchema = jsonschema.MustCompileString("todos.schema.json", CollectionSchema)

// Validate checks a raw stored value against CollectionSchema and decodes it.
// On success result.Tasks holds the decoded collection.
func Validate(raw string) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: make([]error, 0),
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("parse collection: %w", err),
		})
		return result
	}
	if doc == nil {
		result.Empty = true
		return result
	}

	if err := collectionSchema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
		return result
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("decode collection: %w", err),
		})
		return result
	}
	result.Tasks = tasks
	return result
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath turns "/0/done" into "[0].done".
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
