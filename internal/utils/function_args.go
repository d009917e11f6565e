package utils

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DecodeCalldataToStringMap finds the method called by data and returns its readable arguments.
func DecodeCalldataToStringMap(contractABI abi.ABI, data []byte) (string, map[string]string, error) {
	if len(data) < 4 {
		return "", nil, fmt.Errorf("calldata is shorter than a selector")
	}

	var method *abi.Method
	for _, m := range contractABI.Methods {
		if bytes.Equal(m.ID, data[:4]) {
			m := m
			method = &m
			break
		}
	}
	if method == nil {
		return "", nil, fmt.Errorf("no method with selector %s", hexutil.Encode(data[:4]))
	}

	values, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return "", nil, fmt.Errorf("failed to unpack %s arguments: %w", method.Name, err)
	}

	result, err := argsToMap(method.Inputs, values)
	if err != nil {
		return "", nil, err
	}
	return method.Name, result, nil
}

func argsToMap(inputs abi.Arguments, args []any) (map[string]string, error) {
	result := make(map[string]string, len(args))
	for i, arg := range args {
		argName := inputs[i].Name
		if argName == "" {
			argName = fmt.Sprintf("arg%d", i)
		}

		argValue, err := formatArgValue(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to format argument %s: %w", argName, err)
		}
		result[argName] = argValue
	}
	return result, nil
}

// formatArgValue formats an argument value to string
func formatArgValue(arg any) (string, error) {
	switch v := arg.(type) {
	case string:
		return v, nil
	case *big.Int:
		if v == nil {
			return "", fmt.Errorf("nil integer")
		}
		return v.String(), nil
	case common.Address:
		return v.Hex(), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v), nil
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case []byte:
		return hexutil.Encode(v), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}
