package splendor

// Mine enumerates the mineral kinds. Gold is the wild.
type Mine int

const (
	Copper Mine = iota
	Diamond
	Emerald
	Iron
	Netherite
	Gold
)

// Coupon is a purchasable development card. Costs and discounts are
// indexed by the Mine value. An empty coupon marks an exhausted face-up
// slot.
type Coupon struct {
	Reputation int    `json:"reputation"`
	Costs      [5]int `json:"costs"`
	Type       Mine   `json:"type"`
	Level      int    `json:"level"`
	Idx        int    `json:"idx"`
}

func emptyCoupon(level int) Coupon {
	return Coupon{Reputation: -1, Type: Gold, Level: level}
}

// IsEmpty reports whether this face-up slot has run out of cards.
func (c Coupon) IsEmpty() bool {
	return c.Reputation == -1
}

// Ally is a goal card granted when a player's owned-coupon color
// distribution meets its condition.
type Ally struct {
	Reputation int    `json:"reputation"`
	Condition  [5]int `json:"condition"`
	Idx        int    `json:"idx"`
	OwnerID    int64  `json:"owner_id"`
	IsOwned    bool   `json:"is_owned"`
}

func allAllies() []Ally {
	return []Ally{
		{Reputation: 3, Condition: [5]int{0, 0, 0, 4, 4}, Idx: 0},
		{Reputation: 3, Condition: [5]int{0, 4, 4, 0, 0}, Idx: 1},
		{Reputation: 3, Condition: [5]int{3, 3, 3, 0, 0}, Idx: 2},
		{Reputation: 3, Condition: [5]int{0, 3, 3, 3, 0}, Idx: 3},
		{Reputation: 3, Condition: [5]int{3, 0, 0, 3, 3}, Idx: 4},
		{Reputation: 3, Condition: [5]int{3, 0, 3, 0, 3}, Idx: 5},
		{Reputation: 3, Condition: [5]int{4, 0, 4, 0, 0}, Idx: 6},
		{Reputation: 3, Condition: [5]int{4, 0, 0, 0, 4}, Idx: 7},
		{Reputation: 3, Condition: [5]int{0, 4, 0, 4, 0}, Idx: 8},
		{Reputation: 3, Condition: [5]int{0, 3, 0, 3, 3}, Idx: 9},
	}
}

func allCouponsLv1() []Coupon {
	return []Coupon{
		{0, [5]int{0, 0, 0, 3, 0}, Copper, 1, 1},
		{0, [5]int{1, 0, 0, 1, 3}, Copper, 1, 2},
		{0, [5]int{0, 2, 1, 0, 0}, Copper, 1, 3},
		{0, [5]int{0, 0, 1, 2, 2}, Copper, 1, 4},
		{0, [5]int{0, 1, 1, 2, 1}, Copper, 1, 5},
		{0, [5]int{0, 1, 1, 1, 1}, Copper, 1, 6},
		{0, [5]int{2, 0, 0, 2, 0}, Copper, 1, 7},
		{1, [5]int{0, 0, 0, 4, 0}, Copper, 1, 8},
		{0, [5]int{0, 0, 0, 1, 2}, Diamond, 1, 9},
		{0, [5]int{2, 0, 1, 1, 1}, Diamond, 1, 10},
		{0, [5]int{1, 0, 1, 1, 1}, Diamond, 1, 11},
		{0, [5]int{1, 1, 3, 0, 0}, Diamond, 1, 12},
		{0, [5]int{0, 0, 0, 0, 3}, Diamond, 1, 13},
		{0, [5]int{2, 0, 2, 1, 0}, Diamond, 1, 14},
		{0, [5]int{0, 0, 2, 0, 2}, Diamond, 1, 15},
		{1, [5]int{0, 0, 0, 0, 4}, Diamond, 1, 16},
		{0, [5]int{0, 1, 0, 2, 0}, Emerald, 1, 17},
		{0, [5]int{2, 2, 0, 0, 0}, Emerald, 1, 18},
		{0, [5]int{0, 3, 1, 1, 0}, Emerald, 1, 19},
		{0, [5]int{1, 1, 0, 1, 1}, Emerald, 1, 20},
		{0, [5]int{1, 1, 0, 1, 2}, Emerald, 1, 21},
		{0, [5]int{2, 1, 0, 0, 2}, Emerald, 1, 22},
		{0, [5]int{3, 0, 0, 0, 0}, Emerald, 1, 23},
		{1, [5]int{0, 0, 0, 0, 4}, Emerald, 1, 24},
		{0, [5]int{0, 2, 2, 0, 1}, Iron, 1, 25},
		{0, [5]int{2, 0, 0, 0, 1}, Iron, 1, 26},
		{0, [5]int{1, 1, 1, 0, 1}, Iron, 1, 27},
		{0, [5]int{0, 3, 0, 0, 0}, Iron, 1, 28},
		{0, [5]int{0, 2, 0, 0, 2}, Iron, 1, 29},
		{0, [5]int{1, 1, 2, 0, 1}, Iron, 1, 30},
		{0, [5]int{0, 1, 0, 0, 1}, Iron, 1, 31},
		{1, [5]int{0, 0, 4, 0, 0}, Iron, 1, 32},
		{0, [5]int{1, 1, 1, 1, 0}, Netherite, 1, 33},
		{0, [5]int{1, 0, 2, 0, 0}, Netherite, 1, 34},
		{0, [5]int{0, 0, 2, 2, 0}, Netherite, 1, 35},
		{0, [5]int{3, 0, 1, 0, 1}, Netherite, 1, 36},
		{0, [5]int{0, 0, 3, 0, 0}, Netherite, 1, 37},
		{0, [5]int{1, 2, 1, 1, 0}, Netherite, 1, 38},
		{0, [5]int{1, 2, 0, 1, 0}, Netherite, 1, 39},
		{1, [5]int{0, 4, 0, 0, 0}, Netherite, 1, 40},
	}
}

func allCouponsLv2() []Coupon {
	return []Coupon{
		{1, [5]int{2, 3, 0, 0, 3}, Copper, 2, 41},
		{1, [5]int{2, 0, 0, 2, 3}, Copper, 2, 42},
		{2, [5]int{0, 4, 2, 1, 0}, Copper, 2, 43},
		{2, [5]int{0, 0, 0, 3, 5}, Copper, 2, 44},
		{2, [5]int{0, 0, 0, 0, 5}, Copper, 2, 45},
		{3, [5]int{6, 0, 0, 0, 0}, Copper, 2, 46},
		{1, [5]int{3, 2, 2, 0, 0}, Diamond, 2, 47},
		{1, [5]int{0, 2, 3, 0, 3}, Diamond, 2, 48},
		{2, [5]int{0, 3, 0, 5, 0}, Diamond, 2, 49},
		{2, [5]int{0, 5, 0, 0, 0}, Diamond, 2, 50},
		{2, [5]int{1, 0, 0, 2, 4}, Diamond, 2, 51},
		{3, [5]int{0, 6, 0, 0, 0}, Diamond, 2, 52},
		{1, [5]int{3, 0, 2, 3, 0}, Emerald, 2, 53},
		{1, [5]int{0, 3, 0, 3, 2}, Emerald, 2, 54},
		{2, [5]int{0, 2, 0, 4, 1}, Emerald, 2, 55},
		{2, [5]int{0, 0, 5, 0, 0}, Emerald, 2, 56},
		{2, [5]int{0, 5, 3, 0, 0}, Emerald, 2, 57},
		{3, [5]int{0, 0, 6, 0, 0}, Emerald, 2, 58},
		{1, [5]int{2, 0, 3, 0, 2}, Iron, 2, 59},
		{1, [5]int{3, 3, 0, 2, 0}, Iron, 2, 60},
		{2, [5]int{4, 0, 1, 0, 2}, Iron, 2, 61},
		{2, [5]int{5, 0, 0, 0, 0}, Iron, 2, 62},
		{2, [5]int{5, 0, 0, 0, 3}, Iron, 2, 63},
		{3, [5]int{0, 0, 0, 6, 0}, Iron, 2, 64},
		{1, [5]int{0, 2, 2, 3, 0}, Netherite, 2, 65},
		{1, [5]int{0, 0, 3, 3, 2}, Netherite, 2, 66},
		{2, [5]int{2, 1, 4, 0, 0}, Netherite, 2, 67},
		{2, [5]int{0, 0, 0, 5, 0}, Netherite, 2, 68},
		{2, [5]int{3, 0, 5, 0, 0}, Netherite, 2, 69},
		{3, [5]int{0, 0, 0, 0, 6}, Netherite, 2, 70},
	}
}

func allCouponsLv3() []Coupon {
	return []Coupon{
		{3, [5]int{0, 5, 3, 3, 3}, Copper, 3, 71},
		{4, [5]int{0, 0, 7, 0, 0}, Copper, 3, 72},
		{4, [5]int{3, 3, 6, 0, 0}, Copper, 3, 73},
		{5, [5]int{3, 0, 7, 0, 0}, Copper, 3, 74},
		{3, [5]int{3, 0, 3, 3, 5}, Diamond, 3, 75},
		{4, [5]int{0, 0, 0, 7, 0}, Diamond, 3, 76},
		{4, [5]int{0, 3, 0, 6, 3}, Diamond, 3, 77},
		{5, [5]int{0, 3, 0, 7, 0}, Diamond, 3, 78},
		{3, [5]int{3, 3, 0, 5, 3}, Emerald, 3, 79},
		{4, [5]int{0, 6, 3, 3, 0}, Emerald, 3, 80},
		{4, [5]int{0, 7, 0, 0, 0}, Emerald, 3, 81},
		{5, [5]int{0, 7, 3, 0, 0}, Emerald, 3, 82},
		{3, [5]int{5, 3, 3, 0, 3}, Iron, 3, 83},
		{4, [5]int{0, 0, 0, 0, 7}, Iron, 3, 84},
		{4, [5]int{3, 0, 0, 3, 6}, Iron, 3, 85},
		{5, [5]int{0, 0, 0, 3, 7}, Iron, 3, 86},
		{3, [5]int{3, 3, 5, 3, 0}, Netherite, 3, 87},
		{4, [5]int{7, 0, 0, 0, 0}, Netherite, 3, 88},
		{4, [5]int{6, 0, 3, 0, 3}, Netherite, 3, 89},
		{5, [5]int{7, 0, 0, 0, 3}, Netherite, 3, 90},
	}
}
