package autobuild

// RelationCompatibleWith is the only edge type of the compatibility graph.
const RelationCompatibleWith = "COMPATIBLE_WITH"

// EdgePairs lists the category pairs joined by a directed COMPATIBLE_WITH
// edge, as [from, to]. Pairs not listed here are never looked up.
var EdgePairs = [][2]Category{
	{CPU, Motherboard},
	{CPU, CPUCooler},
	{Motherboard, RAM},
	{Motherboard, Case},
	{CPUCooler, Case},
	{GraphicsCard, Case},
	{PowerSupply, Case},
}

// EdgeBetween returns the expected edge direction between two categories.
// ok is false when the graph holds no relation for the pair.
func EdgeBetween(a, b Category) (from, to Category, ok bool) {
	for _, pair := range EdgePairs {
		switch {
		case pair[0] == a && pair[1] == b:
			return a, b, true
		case pair[0] == b && pair[1] == a:
			return b, a, true
		}
	}
	return 0, 0, false
}
