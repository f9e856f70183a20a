package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// maxExactFloat is the largest integer a float64 holds exactly (2^53)
const maxExactFloat = 1 << 53

// ArgKind tags the shape of a constructor argument
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgNumber
	ArgAddress
	ArgBool
	ArgBytes
	ArgList
)

func (k ArgKind) String() string {
	switch k {
	case ArgString:
		return "string"
	case ArgNumber:
		return "number"
	case ArgAddress:
		return "address"
	case ArgBool:
		return "bool"
	case ArgBytes:
		return "bytes"
	case ArgList:
		return "list"
	default:
		return "unknown"
	}
}

// ArgValue is a tagged constructor argument.
//
// Plan files carry untyped values; the kind is inferred when the value is read and the value
// is coerced against the constructor input type when it is encoded. Raw keeps the original
// text of scalars so a numeric-looking string can still be passed to a string parameter.
type ArgValue struct {
	Kind    ArgKind
	Raw     string
	Number  *big.Int
	Address common.Address
	Bool    bool
	Bytes   []byte
	List    []ArgValue
}

// NewString creates a string argument
func NewString(s string) ArgValue {
	return ArgValue{Kind: ArgString, Raw: s}
}

// NewNumber creates a numeric argument
func NewNumber(n *big.Int) ArgValue {
	return ArgValue{Kind: ArgNumber, Raw: n.String(), Number: new(big.Int).Set(n)}
}

// NewAddress creates an address argument
func NewAddress(addr common.Address) ArgValue {
	return ArgValue{Kind: ArgAddress, Raw: addr.Hex(), Address: addr}
}

// NewBool creates a boolean argument
func NewBool(b bool) ArgValue {
	return ArgValue{Kind: ArgBool, Raw: fmt.Sprintf("%t", b), Bool: b}
}

// NewBytes creates a byte string argument
func NewBytes(b []byte) ArgValue {
	return ArgValue{Kind: ArgBytes, Raw: hexutil.Encode(b), Bytes: b}
}

// NewList creates a list argument (array or tuple)
func NewList(items ...ArgValue) ArgValue {
	return ArgValue{Kind: ArgList, List: items}
}

// ParseArgValue infers an ArgValue from a decoded TOML, YAML or JSON value
func ParseArgValue(v any) (ArgValue, error) {
	switch val := v.(type) {
	case ArgValue:
		return val, nil
	case string:
		return parseStringArg(val)
	case bool:
		return NewBool(val), nil
	case int:
		return NewNumber(big.NewInt(int64(val))), nil
	case int64:
		return NewNumber(big.NewInt(val)), nil
	case uint64:
		return NewNumber(new(big.Int).SetUint64(val)), nil
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) {
			return ArgValue{}, fmt.Errorf("%w: non-integer number %v", ErrInvalidArguments, val)
		}
		if math.Abs(val) > maxExactFloat {
			return ArgValue{}, fmt.Errorf("%w: number %v is too large to be exact, quote it as a string", ErrInvalidArguments, val)
		}
		n, _ := big.NewFloat(val).Int(nil)
		return NewNumber(n), nil
	case json.Number:
		n, ok := new(big.Int).SetString(val.String(), 10)
		if !ok {
			return ArgValue{}, fmt.Errorf("%w: non-integer number %s", ErrInvalidArguments, val)
		}
		return NewNumber(n), nil
	case *big.Int:
		return NewNumber(val), nil
	case common.Address:
		return NewAddress(val), nil
	case []any:
		items, err := ParseArgValues(val)
		if err != nil {
			return ArgValue{}, err
		}
		return NewList(items...), nil
	case nil:
		return ArgValue{}, fmt.Errorf("%w: null value", ErrInvalidArguments)
	default:
		return ArgValue{}, fmt.Errorf("%w: unsupported value %v (%T)", ErrInvalidArguments, v, v)
	}
}

// ParseArgValues infers a list of arguments
func ParseArgValues(values []any) ([]ArgValue, error) {
	args := make([]ArgValue, 0, len(values))
	for i, v := range values {
		arg, err := ParseArgValue(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, arg)
	}
	return args, nil
}

func parseStringArg(s string) (ArgValue, error) {
	trimmed := strings.TrimSpace(s)
	if common.IsHexAddress(trimmed) && has0xPrefix(trimmed) {
		addr := common.HexToAddress(trimmed)
		if mixedCase(trimmed[2:]) && addr.Hex() != trimmed {
			return ArgValue{}, fmt.Errorf("%w: bad address checksum %s", ErrInvalidArguments, trimmed)
		}
		return ArgValue{Kind: ArgAddress, Raw: s, Address: addr}, nil
	}
	if has0xPrefix(trimmed) {
		if b, err := hexutil.Decode(trimmed); err == nil {
			return ArgValue{Kind: ArgBytes, Raw: s, Bytes: b}, nil
		}
	}
	if n, ok := new(big.Int).SetString(trimmed, 10); ok {
		return ArgValue{Kind: ArgNumber, Raw: s, Number: n}, nil
	}
	return NewString(s), nil
}

// mixedCase reports whether hex carries both upper and lower case letters, which marks
// an EIP-55 checksummed address
func mixedCase(hex string) bool {
	return strings.ToLower(hex) != hex && strings.ToUpper(hex) != hex
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// String renders the argument for display
func (v ArgValue) String() string {
	if v.Kind != ArgList {
		return v.Raw
	}
	parts := make([]string, len(v.List))
	for i, item := range v.List {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Coerce converts the argument into the Go value go-ethereum packs for the given ABI type
func (v ArgValue) Coerce(t abi.Type) (any, error) {
	switch t.T {
	case abi.IntTy, abi.UintTy:
		return v.coerceInt(t)
	case abi.AddressTy:
		if v.Kind != ArgAddress {
			return nil, v.mismatch(t)
		}
		return v.Address, nil
	case abi.BoolTy:
		switch {
		case v.Kind == ArgBool:
			return v.Bool, nil
		case v.Kind == ArgString && (v.Raw == "true" || v.Raw == "false"):
			return v.Raw == "true", nil
		}
		return nil, v.mismatch(t)
	case abi.StringTy:
		if v.Kind == ArgList {
			return nil, v.mismatch(t)
		}
		return v.Raw, nil
	case abi.BytesTy:
		if v.Kind != ArgBytes {
			return nil, v.mismatch(t)
		}
		return v.Bytes, nil
	case abi.FixedBytesTy:
		if v.Kind != ArgBytes && v.Kind != ArgAddress {
			return nil, v.mismatch(t)
		}
		b := v.Bytes
		if v.Kind == ArgAddress {
			b = v.Address.Bytes()
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("%w: %s expects %d bytes, got %d", ErrInvalidArguments, t.String(), t.Size, len(b))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	case abi.SliceTy:
		if v.Kind != ArgList {
			return nil, v.mismatch(t)
		}
		out := reflect.MakeSlice(t.GetType(), len(v.List), len(v.List))
		if err := v.fillElems(out, *t.Elem); err != nil {
			return nil, err
		}
		return out.Interface(), nil
	case abi.ArrayTy:
		if v.Kind != ArgList {
			return nil, v.mismatch(t)
		}
		if len(v.List) != t.Size {
			return nil, fmt.Errorf("%w: %s expects %d elements, got %d", ErrInvalidArguments, t.String(), t.Size, len(v.List))
		}
		out := reflect.New(t.GetType()).Elem()
		if err := v.fillElems(out, *t.Elem); err != nil {
			return nil, err
		}
		return out.Interface(), nil
	case abi.TupleTy:
		if v.Kind != ArgList {
			return nil, v.mismatch(t)
		}
		if len(v.List) != len(t.TupleElems) {
			return nil, fmt.Errorf("%w: %s expects %d fields, got %d", ErrInvalidArguments, t.String(), len(t.TupleElems), len(v.List))
		}
		out := reflect.New(t.TupleType).Elem()
		for i, elem := range t.TupleElems {
			val, err := v.List[i].Coerce(*elem)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", t.TupleRawNames[i], err)
			}
			out.Field(i).Set(reflect.ValueOf(val))
		}
		return out.Interface(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported parameter type %s", ErrInvalidArguments, t.String())
	}
}

func (v ArgValue) fillElems(out reflect.Value, elem abi.Type) error {
	for i, item := range v.List {
		val, err := item.Coerce(elem)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(val))
	}
	return nil
}

func (v ArgValue) coerceInt(t abi.Type) (any, error) {
	if v.Kind != ArgNumber || v.Number == nil {
		return nil, v.mismatch(t)
	}
	n := v.Number

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%w: %s out of range for %s", ErrInvalidArguments, n, t.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		lowest := new(big.Int).Neg(limit)
		if n.Cmp(limit) >= 0 || n.Cmp(lowest) < 0 {
			return nil, fmt.Errorf("%w: %s out of range for %s", ErrInvalidArguments, n, t.String())
		}
	}

	goType := t.GetType()
	if goType.Kind() == reflect.Ptr {
		return new(big.Int).Set(n), nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}

func (v ArgValue) mismatch(t abi.Type) error {
	return fmt.Errorf("%w: cannot use %s %q as %s", ErrInvalidArguments, v.Kind, v.String(), t.String())
}
