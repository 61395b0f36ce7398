package group

import (
	"math/big"
	"sync"
)

// modp2048Hex is the 2048-bit MODP prime of RFC 3526 section 3. It is a safe
// prime: (p-1)/2 is itself prime and serves as the subgroup order q. The
// generator 4 is a quadratic residue, so it generates the order-q subgroup.
const modp2048Hex = "FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD1" +
	"29024E088A67CC74020BBEA63B139B22514A08798E3404DD" +
	"EF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245" +
	"E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
	"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3D" +
	"C2007CB8A163BF0598DA48361C55D39A69163FA8FD24CF5F" +
	"83655D23DCA3AD961C62F356208552BB9ED529077096966D" +
	"670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
	"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9" +
	"DE2BCBF6955817183995497CEA956AE515D2261898FA0510" +
	"15728E5A8AACAA68FFFFFFFFFFFFFFFF"

var (
	modp2048     *Params
	modp2048Once sync.Once
)

// MODP2048 returns the group built on the 2048-bit MODP prime of RFC 3526,
// with q = (p-1)/2 and generator 4. It is the default parameter set handed
// out when no custom group file is configured.
func MODP2048() *Params {
	modp2048Once.Do(func() {
		p, ok := new(big.Int).SetString(modp2048Hex, 16)
		if !ok {
			panic("group: corrupted MODP constant")
		}
		q := new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(1)), 1)
		params, err := NewParams(p, q, big.NewInt(4))
		if err != nil {
			panic(err)
		}
		modp2048 = params
	})
	return modp2048
}
