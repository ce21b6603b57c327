// Package validation checks the chain and address identifiers that cross
// this service's boundaries. Transactions themselves are built and signed
// by the wallet provider, so only identifiers need checking here.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// knownEVMChains maps eip155 chain IDs to display names. Unknown chains
// are allowed; the map only feeds ChainName.
var knownEVMChains = map[int64]string{
	1:        "Ethereum Mainnet",
	10:       "Optimism",
	137:      "Polygon",
	8453:     "Base",
	84532:    "Base Sepolia",
	42161:    "Arbitrum One",
	11155111: "Sepolia",
}

// ValidateCAIP2 checks that s is a CAIP-2 chain identifier
// (namespace:reference). For the eip155 namespace the reference must be a
// positive decimal chain ID; other namespaces only need a non-empty
// reference.
func ValidateCAIP2(s string) error {
	namespace, reference, ok := strings.Cut(s, ":")
	if !ok || namespace == "" || reference == "" {
		return fmt.Errorf("not a CAIP-2 identifier (namespace:reference): %q", s)
	}

	if namespace == "eip155" {
		chainID, err := strconv.ParseInt(reference, 10, 64)
		if err != nil || chainID <= 0 {
			return fmt.Errorf("eip155 CAIP-2 reference must be a positive chain ID, got: %q", reference)
		}
	}

	return nil
}

// ChainName returns a display name for a CAIP-2 identifier, or the
// identifier itself when the chain is not known.
func ChainName(caip2 string) string {
	namespace, reference, ok := strings.Cut(caip2, ":")
	if !ok || namespace != "eip155" {
		return caip2
	}
	chainID, err := strconv.ParseInt(reference, 10, 64)
	if err != nil {
		return caip2
	}
	if name, known := knownEVMChains[chainID]; known {
		return name
	}
	return caip2
}

// ValidateEthereumAddress checks that address is a well-formed 0x-prefixed
// hex address. Provider wallet addresses should always pass; a failure
// means the provider record is malformed.
func ValidateEthereumAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid ethereum address: %q", address)
	}
	return nil
}
