package ckks

import "math/big"

var negOne = big.NewFloat(-1)
