package uno

// CardContent enumerates the face of a card.
type CardContent int

const (
	Zero CardContent = iota
	One
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine

	Skip
	Draw2
	Reverse

	Wild
	WildDraw4
)

// CardColor enumerates card colors. Black is the wild color.
type CardColor int

const (
	Red CardColor = iota
	Yellow
	Green
	Blue
	Black
)

// Card is a single UNO card.
type Card struct {
	Color   CardColor
	Content CardContent
}

// Code packs a card into its wire representation: color*16 + content.
// WILD_DRAW_4 is therefore 4*16+14 = 78.
func (c Card) Code() int {
	return int(c.Color)*16 + int(c.Content)
}

// CardFromCode unpacks a wire code back into a card.
func CardFromCode(code int) Card {
	return Card{
		Color:   CardColor(code / 16),
		Content: CardContent(code % 16),
	}
}

// IsNumber reports whether the card face is a digit.
func (c Card) IsNumber() bool {
	return c.Content <= Nine
}

// IsWild reports whether the card is WILD or WILD_DRAW_4.
func (c Card) IsWild() bool {
	return c.Color == Black
}

// allCards builds the 108-card composition: per color two each of 1-9,
// SKIP, DRAW_2 and REVERSE plus one 0, then four WILD and four WILD_DRAW_4.
func allCards() []Card {
	cards := make([]Card, 0, 108)
	colors := []CardColor{Red, Yellow, Green, Blue}
	doubled := []CardContent{
		One, Two, Three, Four, Five, Six, Seven, Eight, Nine,
		Skip, Draw2, Reverse,
	}
	for _, color := range colors {
		for _, content := range doubled {
			cards = append(cards, Card{color, content}, Card{color, content})
		}
	}
	for _, color := range colors {
		cards = append(cards, Card{color, Zero})
	}
	for i := 0; i < 4; i++ {
		cards = append(cards, Card{Black, Wild}, Card{Black, WildDraw4})
	}
	return cards
}
