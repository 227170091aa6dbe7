package artifacts

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ValidateBytecode checks that a bytecode object is well-formed hex.
// Empty objects are valid (interfaces and abstract contracts have no
// code), and objects carrying __$...$__ library link placeholders are
// accepted as-is since they only become hex after linking.
func ValidateBytecode(object string) error {
	if object == "" {
		return nil
	}
	if strings.Contains(object, "__") {
		return nil
	}
	normalized := object
	if !strings.HasPrefix(normalized, "0x") {
		normalized = "0x" + normalized
	}
	if _, err := hexutil.Decode(normalized); err != nil {
		return fmt.Errorf("invalid bytecode object: %w", err)
	}
	return nil
}
