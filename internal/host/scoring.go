package host

import "math"

const (
	guessBasePoints  = 50
	guessSpeedPoints = 450
	firstGuessBonus  = 50
	secondGuessBonus = 25
	drawerDripPoints = 100
)

// GuesserPoints - base + speed + order bonus. order is how many players
// guessed correctly before this one.
func GuesserPoints(secondsRemaining, totalDrawSeconds, order int) int {
	return guessBasePoints +
		int(math.Ceil(timeRatio(secondsRemaining, totalDrawSeconds)*guessSpeedPoints)) +
		orderBonus(order)
}

// DrawerDrip - what the drawer earns per distinct correct guesser.
func DrawerDrip(secondsRemaining, totalDrawSeconds int) int {
	return int(math.Ceil(timeRatio(secondsRemaining, totalDrawSeconds) * drawerDripPoints))
}

func orderBonus(order int) int {
	switch order {
	case 0:
		return firstGuessBonus
	case 1:
		return secondGuessBonus
	default:
		return 0
	}
}

func timeRatio(remaining, total int) float64 {
	if total <= 0 || remaining <= 0 {
		return 0
	}

	return float64(remaining) / float64(total)
}
