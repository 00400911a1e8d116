package codegen

import (
	"encoding/json"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
)

// TypeInfoSymbol names the global that carries the JSON type info.
const TypeInfoSymbol = "__ys_types"

type TypeInfo struct {
	Functions map[string]string `json:"functions"`
	Types     map[string]string `json:"types,omitempty"`
}

func collectTypeInfo(m *ir.Module) TypeInfo {
	t := TypeInfo{Functions: map[string]string{}}

	for _, fn := range m.Funcs {
		t.Functions[fn.Name()] = fn.Sig.LLString()
	}

	if len(m.TypeDefs) != 0 {
		t.Types = map[string]string{}
		for _, def := range m.TypeDefs {
			t.Types[def.Name()] = def.LLString()
		}
	}

	return t
}

func registerTypeInfoWithModule(t TypeInfo, m *ir.Module) {
	data, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}

	g := m.NewGlobalDef(TypeInfoSymbol, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
}

// DecodeTypeInfo parses the payload read back from TypeInfoSymbol.
func DecodeTypeInfo(data string) (t TypeInfo, err error) {
	err = json.Unmarshal([]byte(data), &t)
	return
}
