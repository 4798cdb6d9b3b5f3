package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost calcula o custo médio ponderado após uma entrada
// (serviço de domínio).
// NovoCusto = ((SaldoAtual * CustoAtual) + (QtdEntrada * CustoEntrada)) / (SaldoAtual + QtdEntrada)
func WeightedAverageCost(currentQty, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	sum := currentQty.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := currentQty.Mul(currentCost).Add(inQty.Mul(inCost))
	return num.Div(sum)
}
