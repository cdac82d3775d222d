// Package devnet implements a reference TRP resolver for local
// development and tests. It interprets a deliberately tiny TIR
// dialect: the bytecode is an encoded template string in which
// {name} placeholders are substituted from the request arguments
// (request args win over environment args). The resolved transaction
// is returned hex-encoded, with the raw bytes alongside in base64.
//
// Real TIR interpretation is out of scope for this module; devnet
// exists so the transports and the testing kit have a live resolver
// to talk to.
package devnet

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"

	"github.com/blockberries/trp"
	"github.com/blockberries/trp/types"
)

// Compile-time interface check.
var _ trp.Handler = (*Resolver)(nil)

var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Resolver is the devnet template interpreter.
type Resolver struct{}

// New creates a devnet resolver.
func New() *Resolver {
	return &Resolver{}
}

func (r *Resolver) Resolve(_ context.Context, proto types.ProtoTx, env types.Args) (types.TxEnvelope, error) {
	if proto.Tir == nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindRPC, "missing tir envelope", nil)
	}

	template, err := decodeBytecode(proto.Tir)
	if err != nil {
		return types.TxEnvelope{}, trp.NewError(trp.KindRPC, "undecodable bytecode", err.Error())
	}

	resolved, err := substitute(template, proto.Args, env)
	if err != nil {
		return types.TxEnvelope{}, err
	}

	return types.TxEnvelope{
		Tx:       hex.EncodeToString([]byte(resolved)),
		Bytes:    base64.StdEncoding.EncodeToString([]byte(resolved)),
		Encoding: "base64",
	}, nil
}

func decodeBytecode(tir *types.TirEnvelope) (string, error) {
	switch tir.Encoding {
	case "hex":
		raw, err := hex.DecodeString(tir.Bytecode)
		return string(raw), err
	case "", "base64":
		raw, err := base64.StdEncoding.DecodeString(tir.Bytecode)
		return string(raw), err
	default:
		return "", fmt.Errorf("unknown encoding %q", tir.Encoding)
	}
}

// substitute replaces every {name} placeholder, looking names up in
// args first and env second.
func substitute(template string, args, env types.Args) (string, error) {
	var substErr error
	out := placeholder.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]

		val, ok := args[name]
		if !ok {
			val, ok = env[name]
		}
		if !ok {
			if substErr == nil {
				substErr = trp.NewError(trp.KindRPC, "unbound argument", map[string]any{"arg": name})
			}
			return match
		}

		rendered, err := render(name, val)
		if err != nil && substErr == nil {
			substErr = err
		}
		return rendered
	})
	if substErr != nil {
		return "", substErr
	}
	return out, nil
}

func render(name string, val types.ArgValue) (string, error) {
	if s, ok := val.StringVal(); ok {
		return s, nil
	}
	if n, ok := val.IntVal(); ok {
		return strconv.FormatInt(n, 10), nil
	}
	if b, ok := val.BoolVal(); ok {
		return strconv.FormatBool(b), nil
	}
	if raw, ok := val.BytesVal(); ok {
		return hex.EncodeToString(raw), nil
	}
	// Null carries nothing a template can embed.
	return "", trp.NewError(trp.KindRPC, "null argument", map[string]any{"arg": name})
}
