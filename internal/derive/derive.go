// Package derive computes deterministic deployment addresses. Every function
// here is pure: the predicted address depends only on the factory identity,
// the creator, the configuration content, and the resolved implementation —
// never on deployment order or any counter — so predicting N times and then
// deploying always lands on the same address.
package derive

import (
	"encoding/binary"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"

	"github.com/holiman/uint256"
)

// ConfigHash hashes the full token configuration. String fields are
// length-prefixed so ("ab","c") and ("a","bc") cannot collide.
func ConfigHash(name, symbol string, supply *uint256.Int, decimals uint8,
	owner common.Address, flags byte, maxSupply *uint256.Int) common.Hash {

	h := sha3.NewLegacyKeccak256()
	writeString(h, name)
	writeString(h, symbol)
	b32 := supply.Bytes32()
	h.Write(b32[:])
	h.Write([]byte{decimals})
	h.Write(owner.Bytes())
	h.Write([]byte{flags})
	b32 = maxSupply.Bytes32()
	h.Write(b32[:])

	var out common.Hash
	h.Sum(out[:0])
	return out
}

func writeString(h io.Writer, s string) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}

// Salt mixes the creator into the configuration hash. Two creators deploying
// byte-identical configurations therefore get different addresses.
func Salt(creator common.Address, configHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(creator.Bytes(), configHash.Bytes())
}

// CloneInitCode builds the EIP-1167 minimal forwarding shell for impl. Every
// instance deploys these 55 bytes and delegates all calls to the shared
// implementation code.
func CloneInitCode(impl common.Address) []byte {
	code := make([]byte, 0, 55)
	code = append(code, common.Hex2Bytes("3d602d80600a3d3981f3363d3d373d3d3d363d73")...)
	code = append(code, impl.Bytes()...)
	code = append(code, common.Hex2Bytes("5af43d82803e903d91602b57fd5bf3")...)
	return code
}

// InstanceAddress is the CREATE2 address of the forwarding shell the factory
// deploys for (creator, configHash) against impl.
func InstanceAddress(factory, creator common.Address, configHash common.Hash,
	impl common.Address) common.Address {

	salt := Salt(creator, configHash)
	return crypto.CreateAddress2(factory, salt, crypto.Keccak256(CloneInitCode(impl)))
}
