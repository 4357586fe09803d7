package progression

import (
	"math/rand/v2"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

// Prize is one segment of the lottery wheel
type Prize struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// Won reports whether the segment pays out
func (p Prize) Won() bool { return p.Amount > 0 }

// Prize names
const (
	PrizeGiftCard = "Gift Card"
	PrizeTryAgain = "Try Again"
)

// LotteryWheel lists the equally likely wheel segments in order
var LotteryWheel = []Prize{
	{Name: PrizeGiftCard, Amount: 1},
	{Name: PrizeTryAgain},
	{Name: PrizeGiftCard, Amount: 3},
	{Name: PrizeTryAgain},
	{Name: PrizeGiftCard, Amount: 5},
	{Name: PrizeTryAgain},
	{Name: PrizeGiftCard, Amount: 1},
	{Name: PrizeTryAgain},
}

// EnterLottery spends LotteryCost tickets and spins the wheel
func EnterLottery(state domain.ProgressionState, rng *rand.Rand) (domain.ProgressionState, Prize, error) {
	if state.Tickets < LotteryCost {
		return state, Prize{}, domain.ErrInsufficientTickets
	}
	next := state.Clone()
	next.Tickets -= LotteryCost
	return next, LotteryWheel[rng.IntN(len(LotteryWheel))], nil
}
