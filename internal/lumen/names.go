package lumen

import (
	"fmt"
	"math/rand/v2"
)

var nameAdjectives = []string{
	"Mysterious",
	"Quiet",
	"Peaceful",
	"Hopeful",
	"Brave",
	"Kind",
	"Patient",
	"Strong",
	"Caring",
	"Gentle",
	"Fearless",
	"Curious",
}

var nameNouns = []string{
	"Star",
	"Moon",
	"Sun",
	"Cloud",
	"Sea",
	"Wind",
	"Butterfly",
	"Bird",
	"Flower",
	"Tree",
	"River",
	"Mountain",
}

// GenerateAnonymousName returns a display name such as "QuietRiver42".
func GenerateAnonymousName() string {
	return anonymousName(rand.IntN)
}

func anonymousName(intn func(int) int) string {
	adj := nameAdjectives[intn(len(nameAdjectives))]
	noun := nameNouns[intn(len(nameNouns))]
	return fmt.Sprintf("%s%s%d", adj, noun, intn(999))
}
