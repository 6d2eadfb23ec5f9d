// Package index turns Go structs into RediSearch FT.CREATE statements and
// exposes the declared columns so the SQL front end can validate statements
// against real schemas.
//
//	type Person struct {
//	    ID        string `searchql:"@person_id,PK"`
//	    FirstName string `searchql:"@first_name,TEXT"`
//	    LastName  string `searchql:"@last_name,TEXT"`
//	    Type      int    `searchql:"@type,TAG"`
//	}
//
//	if err := index.AutoCreate(ctx, conn, Person{},
//	    index.WithName("people_idx"),
//	    index.WithPrefixes("person:"),
//	); err != nil {
//	    log.Fatal(err)
//	}
package index

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/mgodwin/searchql/driver"
)

// TagKey is the struct tag the schema builder reads.
const TagKey = "searchql"

// ------------------------------------------------------------------
// Options
// ------------------------------------------------------------------

type CreateOpt func(*createCfg)

type createCfg struct {
	name      string   // FT index name
	prefixes  []string // HASH/JSON key prefixes
	onJson    bool     // ON JSON (default: HASH)
	stopwords []string
}

func WithName(name string) CreateOpt          { return func(c *createCfg) { c.name = name } }
func WithPrefixes(p ...string) CreateOpt      { return func(c *createCfg) { c.prefixes = p } }
func OnJSON() CreateOpt                       { return func(c *createCfg) { c.onJson = true } }
func WithStopwords(words ...string) CreateOpt { return func(c *createCfg) { c.stopwords = words } }

// ------------------------------------------------------------------
// Public API
// ------------------------------------------------------------------

// AutoCreate builds a schema from the supplied struct model and invokes
// FT.CREATE IF NOT EXISTS. It is safe to call concurrently – Redis will just
// return an error we ignore when the index already exists.
func AutoCreate(
	ctx context.Context,
	exec driver.Executor,
	model any,
	opts ...CreateOpt,
) error {

	cfg := &createCfg{name: inferIndexName(model)}
	for _, o := range opts {
		o(cfg)
	}

	schemaArgs := BuildSchema(model)
	args := []interface{}{"FT.CREATE", cfg.name}
	if cfg.onJson {
		args = append(args, "ON", "JSON")
	}
	if len(cfg.prefixes) > 0 {
		args = append(args, "PREFIX", len(cfg.prefixes))
		for _, p := range cfg.prefixes {
			args = append(args, p)
		}
	}
	if len(cfg.stopwords) > 0 {
		args = append(args, "STOPWORDS", len(cfg.stopwords))
		for _, s := range cfg.stopwords {
			args = append(args, s)
		}
	}
	args = append(args, "SCHEMA")
	args = append(args, schemaArgs...)

	if _, err := exec.Do(ctx, args...); err != nil &&
		!strings.Contains(err.Error(), "Index already exists") {
		return fmt.Errorf("index: FT.CREATE failed: %w", err)
	}
	return nil
}

// BuildSchema inspects the struct tags (`searchql:"@field,TAG,SORTABLE"`) and
// returns the tail of the SCHEMA clause as []interface{}.
func BuildSchema(model any) []interface{} {
	var out []interface{}
	for _, f := range taggedFields(model) {
		fieldType := "TEXT" // default

		// extra attributes (NUMERIC, TAG, GEO, SORTABLE, PK)
		for _, a := range f.attrs {
			switch strings.ToUpper(a) {
			case "NUMERIC", "TAG", "GEO", "VECTOR":
				fieldType = strings.ToUpper(a)
			}
		}

		out = append(out, f.name, fieldType)
		for _, a := range f.attrs {
			upper := strings.ToUpper(a)
			switch upper {
			case "SORTABLE", "NOINDEX", "NOSTEM":
				out = append(out, upper)
			case "PK":
				out = append(out, "NOINDEX")
			}
		}
	}
	return out
}

// Columns lists the declared column names of a model in field order. The
// result plugs straight into a sqllang.TableSet for statement validation.
func Columns(model any) []string {
	fields := taggedFields(model)
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.name
	}
	return out
}

type taggedField struct {
	name  string
	attrs []string
}

func taggedFields(model any) []taggedField {
	rt := reflect.TypeOf(model)
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	var out []taggedField
	for i := 0; i < rt.NumField(); i++ {
		tag := rt.Field(i).Tag.Get(TagKey)
		if tag == "" {
			continue
		}
		parts := strings.Split(tag, ",")
		out = append(out, taggedField{
			name:  strings.TrimPrefix(parts[0], "@"),
			attrs: parts[1:],
		})
	}
	return out
}

// inferIndexName defaults to struct type name snake_cased + "_idx".
func inferIndexName(model any) string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return snake(t.Name()) + "_idx"
}

// snake converts CamelCase to snake_case.
func snake(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			sb.WriteByte('_')
		}
		sb.WriteRune(r)
	}
	return strings.ToLower(sb.String())
}
