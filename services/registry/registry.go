package registry

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kapildev5262/Token-World/types"
)

const (
	Sepolia     = "sepolia"
	BaseSepolia = "baseSepolia"
)

// DefaultChains is the built-in catalogue of supported networks, in display order
var DefaultChains = []types.ChainDescriptor{
	{
		ID:                        Sepolia,
		DisplayName:               "Sepolia",
		ChainIDHex:                "0xaa36a7",
		RPCEndpoint:               "https://rpc.sepolia.org",
		BlockExplorerURL:          "https://sepolia.etherscan.io",
		FungibleFactoryAddress:    common.HexToAddress("0x3506bDaDB1a7C7649180Be7C0A10B4b0806DC111"),
		NonFungibleFactoryAddress: common.HexToAddress("0x6B39D21905218f8E3091D64eE86f3Df8f34d4D08"),
		NativeCurrency: types.NativeCurrency{
			Name:     "Sepolia Ether",
			Symbol:   "ETH",
			Decimals: 18,
		},
	},
	{
		ID:                        BaseSepolia,
		DisplayName:               "Base Sepolia",
		ChainIDHex:                "0x14a34",
		RPCEndpoint:               "https://sepolia.base.org",
		BlockExplorerURL:          "https://sepolia.basescan.org",
		FungibleFactoryAddress:    common.HexToAddress("0x56C9B53F4D2C3E2A0D6A51f354aC73F0861fBeBA"),
		NonFungibleFactoryAddress: common.HexToAddress("0x2964a73662E87BC8394fbc512ae854504B291b8E"),
		NativeCurrency: types.NativeCurrency{
			Name:     "Ether",
			Symbol:   "ETH",
			Decimals: 18,
		},
	},
}

// ChainRegistry is a read-only catalogue of supported networks
type ChainRegistry struct {
	chains []types.ChainDescriptor
	byID   map[string]int
	byHex  map[string]int
}

// New creates a registry from descriptors. rpcOverrides replaces the RPC endpoint of the matching chain id.
func New(chains []types.ChainDescriptor, rpcOverrides map[string]string) *ChainRegistry {
	r := &ChainRegistry{
		chains: make([]types.ChainDescriptor, 0, len(chains)),
		byID:   make(map[string]int, len(chains)),
		byHex:  make(map[string]int, len(chains)),
	}

	for _, c := range chains {
		if _, exists := r.byID[c.ID]; exists {
			continue
		}
		c.ChainIDHex = types.NormalizeChainIDHex(c.ChainIDHex)
		if url, ok := rpcOverrides[c.ID]; ok && url != "" {
			c.RPCEndpoint = url
		}
		r.byID[c.ID] = len(r.chains)
		r.byHex[c.ChainIDHex] = len(r.chains)
		r.chains = append(r.chains, c)
	}

	return r
}

// NewDefault creates a registry with the built-in catalogue
func NewDefault(rpcOverrides map[string]string) *ChainRegistry {
	return New(DefaultChains, rpcOverrides)
}

// Get returns the descriptor with the given id
func (r *ChainRegistry) Get(id string) (types.ChainDescriptor, error) {
	i, ok := r.byID[id]
	if !ok {
		return types.ChainDescriptor{}, types.ErrUnknownChain.WithDetail("chain %q is not supported", id)
	}
	return r.chains[i], nil
}

// ByChainIDHex returns the descriptor whose wallet-facing chain id matches
func (r *ChainRegistry) ByChainIDHex(chainIDHex string) (types.ChainDescriptor, error) {
	i, ok := r.byHex[types.NormalizeChainIDHex(chainIDHex)]
	if !ok {
		return types.ChainDescriptor{}, types.ErrUnknownChain.WithDetail("chain id %s is not supported", chainIDHex)
	}
	return r.chains[i], nil
}

// List returns all descriptors in catalogue order
func (r *ChainRegistry) List() []types.ChainDescriptor {
	out := make([]types.ChainDescriptor, len(r.chains))
	copy(out, r.chains)
	return out
}

// IDs returns the chain ids in catalogue order
func (r *ChainRegistry) IDs() []string {
	ids := make([]string, len(r.chains))
	for i, c := range r.chains {
		ids[i] = c.ID
	}
	return ids
}
