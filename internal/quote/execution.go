package quote

import (
	"math/big"

	"github.com/stele-fi/swap-quote-service/internal/constants"
)

// ExecutionMinOut computes the minimum-output bound enforced at transaction
// time from the routing oracle's quoted output, in raw output-token units.
//
// maxSlippageBps is the fund-level max-slippage setting; it is reduced by
// 20% before applying so the on-chain bound is tighter than what the fund
// nominally tolerates. The advisory engine quote plays no part here.
func ExecutionMinOut(routerAmountOut uint64, maxSlippageBps uint16) uint64 {
	return ExecutionMinOutBig(new(big.Int).SetUint64(routerAmountOut), maxSlippageBps).Uint64()
}

// ExecutionMinOutBig is ExecutionMinOut for raw amounts that may exceed
// uint64, which 18-decimal tokens reach past ~18 whole units.
func ExecutionMinOutBig(routerAmountOut *big.Int, maxSlippageBps uint16) *big.Int {
	effective := uint64(float64(maxSlippageBps) * constants.ExecutionSlippageCut)
	if effective >= 10000 || routerAmountOut == nil || routerAmountOut.Sign() <= 0 {
		return big.NewInt(0)
	}

	// minOut = amountOut * (10000 - effective) / 10000, in integer math to
	// avoid float rounding on large raw amounts.
	out := new(big.Int).Set(routerAmountOut)
	out.Mul(out, new(big.Int).SetUint64(10000-effective))
	out.Div(out, big.NewInt(10000))
	return out
}
