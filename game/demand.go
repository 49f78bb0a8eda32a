package game

// Load is a cargo kind a train can carry.
type Load string

const (
	Coal      Load = "Coal"
	Steel     Load = "Steel"
	Wine      Load = "Wine"
	Beer      Load = "Beer"
	Cheese    Load = "Cheese"
	Wheat     Load = "Wheat"
	Cars      Load = "Cars"
	Machinery Load = "Machinery"
)

// Demand is one resolved requirement from a demand card in a player's hand:
// deliver Load to City for Payment. CardID ties the requirement back to the
// card it came from, so a delivery can retire the whole card.
type Demand struct {
	CardID  string
	City    string
	Load    Load
	Payment int
}
