// Package dump holds the tree-shaped value AST nodes serialise into for
// debugging and test fixtures.
package dump

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

type Value interface {
	isValue()
}

type String string

func (String) isValue() {}

type Number int64

func (Number) isValue() {}

type Array []Value

func (Array) isValue() {}

type Member struct {
	Key   string
	Value Value
}

// Object is a mapping that remembers insertion order.
type Object struct {
	Members []Member
}

func (*Object) isValue() {}

// Node starts an object tagged with its kind discriminator.
func Node(kind string) *Object {
	return (&Object{}).Set("kind", String(kind))
}

// Set replaces the value under key, or appends it when the key is new.
func (o *Object) Set(key string, v Value) *Object {
	for i := range o.Members {
		if o.Members[i].Key == key {
			o.Members[i].Value = v
			return o
		}
	}
	o.Members = append(o.Members, Member{key, v})
	return o
}

func (o *Object) Get(key string) (Value, bool) {
	for _, m := range o.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.Members))
	for _, m := range o.Members {
		keys = append(keys, m.Key)
	}
	return keys
}

func (o *Object) MarshalYAML() (interface{}, error) {
	return toYAML(o), nil
}

func toYAML(v Value) interface{} {
	switch v := v.(type) {
	case String:
		return string(v)
	case Number:
		return int64(v)
	case Array:
		out := make([]interface{}, 0, len(v))
		for _, elem := range v {
			out = append(out, toYAML(elem))
		}
		return out
	case *Object:
		out := make(yaml.MapSlice, 0, len(v.Members))
		for _, m := range v.Members {
			out = append(out, yaml.MapItem{Key: m.Key, Value: toYAML(m.Value)})
		}
		return out
	}
	return nil
}

// YAML renders v as a YAML document.
func YAML(v Value) (string, error) {
	out, err := yaml.Marshal(toYAML(v))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Format renders v as indented braces/brackets text.
func Format(v Value) string {
	var sb strings.Builder
	write(&sb, v, 0)
	return sb.String()
}

func write(sb *strings.Builder, v Value, depth int) {
	indent := strings.Repeat("  ", depth+1)
	closing := strings.Repeat("  ", depth)

	switch v := v.(type) {
	case nil:
		sb.WriteString("null")
	case String:
		sb.WriteString(strconv.Quote(string(v)))
	case Number:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case Array:
		if len(v) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteString("[\n")
		for i, elem := range v {
			sb.WriteString(indent)
			write(sb, elem, depth+1)
			if i != len(v)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		sb.WriteString(closing + "]")
	case *Object:
		if len(v.Members) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{\n")
		for i, m := range v.Members {
			sb.WriteString(indent + strconv.Quote(m.Key) + ": ")
			write(sb, m.Value, depth+1)
			if i != len(v.Members)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		sb.WriteString(closing + "}")
	}
}
