package autobuild

// PSUHeadroom is the fixed safety margin a power supply must provide over the
// estimated draw of the rest of the build.
const PSUHeadroom = 1.25

// Fixed draw allowances in watts for parts without a TDP rating.
const (
	MotherboardDraw = 80
	CoolerDraw      = 15
	RAMModuleDraw   = 5
	SmallDriveDraw  = 5
	LargeDriveDraw  = 10
)

// EstimatedDraw sums the expected power draw of every assigned component,
// skipping the excluded category (the slot a candidate would replace).
// The power supply itself never contributes.
func EstimatedDraw(cfg Configuration, exclude Category) int {
	total := 0
	for _, c := range BuildOrder {
		if c == exclude || c == PowerSupply {
			continue
		}
		p, ok := cfg.Get(c)
		if !ok {
			continue
		}
		total += PartDraw(c, p)
	}
	return total
}

// PartDraw is the draw attributed to one part in category c.
func PartDraw(c Category, p Part) int {
	switch c {
	case CPU, GraphicsCard:
		return p.Specs.TDP
	case Motherboard:
		return MotherboardDraw
	case CPUCooler:
		return CoolerDraw
	case RAM:
		modules := p.Specs.Modules
		if modules < 1 {
			modules = 1
		}
		return modules * RAMModuleDraw
	case InternalStorage:
		if p.Specs.FormFactor == FormFactor35 {
			return LargeDriveDraw
		}
		return SmallDriveDraw
	}
	return 0
}

// RequiredWattage is the minimum PSU rating for the given draw.
func RequiredWattage(draw int) float64 {
	return float64(draw) * PSUHeadroom
}
