package autobuildtest

import "pc-autobuild-be/pkg/autobuild"

// A small but coherent desktop catalog. Prices are VND.
var (
	Ryzen5600 = autobuild.Part{
		Name: "AMD Ryzen 5 5600", Category: autobuild.CPU, Price: 3_000_000,
		BenchmarkScore: 22_000, SalesVolume: 900, Chipset: "AM4",
		Specs: autobuild.Specs{TDP: 65},
	}
	Ryzen5700X = autobuild.Part{
		Name: "AMD Ryzen 7 5700X", Category: autobuild.CPU, Price: 4_800_000,
		BenchmarkScore: 27_000, SalesVolume: 400, Chipset: "AM4",
		Specs: autobuild.Specs{TDP: 65},
	}
	Core12400F = autobuild.Part{
		Name: "Intel Core i5-12400F", Category: autobuild.CPU, Price: 3_200_000,
		BenchmarkScore: 19_500, SalesVolume: 1_200, Chipset: "LGA1700",
		Specs: autobuild.Specs{TDP: 65},
	}

	AK400 = autobuild.Part{
		Name: "Deepcool AK400", Category: autobuild.CPUCooler, Price: 650_000,
		BenchmarkScore: 10, SalesVolume: 800,
	}
	SE214 = autobuild.Part{
		Name: "ID-Cooling SE-214-XT", Category: autobuild.CPUCooler, Price: 400_000,
		BenchmarkScore: 8, SalesVolume: 1_000,
	}

	B550M = autobuild.Part{
		Name: "MSI B550M PRO-VDH", Category: autobuild.Motherboard, Price: 2_100_000,
		BenchmarkScore: 80, SalesVolume: 700, Chipset: "B550",
		Specs: autobuild.Specs{
			MemorySlots: 4, MaxMemoryGB: 128, PCIeX16: 1, PCIeX1: 2, SATASlots: 4,
			M2Slots: []string{"M.2 2280 PCIe 4.0", "M.2 2280 PCIe 3.0"},
		},
	}
	B450MK = autobuild.Part{
		Name: "ASUS PRIME B450M-K", Category: autobuild.Motherboard, Price: 1_600_000,
		BenchmarkScore: 60, SalesVolume: 1_100, Chipset: "B450",
		Specs: autobuild.Specs{
			MemorySlots: 2, MaxMemoryGB: 32, PCIeX16: 1, PCIeX1: 1, SATASlots: 4,
			M2Slots: []string{"M.2 2280 PCIe 3.0"},
		},
	}
	B760M = autobuild.Part{
		Name: "Gigabyte B760M DS3H", Category: autobuild.Motherboard, Price: 2_300_000,
		BenchmarkScore: 85, SalesVolume: 500, Chipset: "B760",
		Specs: autobuild.Specs{
			MemorySlots: 4, MaxMemoryGB: 128, PCIeX16: 1, PCIeX1: 2, SATASlots: 4,
			M2Slots: []string{"M.2 2280 PCIe 4.0", "M.2 2280 PCIe 4.0"},
		},
	}

	RTX3060 = autobuild.Part{
		Name: "ASUS Dual GeForce RTX 3060 12GB", Category: autobuild.GraphicsCard, Price: 6_500_000,
		BenchmarkScore: 17_000, SalesVolume: 900, Chipset: "RTX 3060",
		Specs: autobuild.Specs{TDP: 170, Interface: autobuild.InterfacePCIeX16, SlotWidth: 1},
	}
	RTX4060 = autobuild.Part{
		Name: "Gigabyte GeForce RTX 4060 Eagle OC", Category: autobuild.GraphicsCard, Price: 7_600_000,
		BenchmarkScore: 19_000, SalesVolume: 1_300, Chipset: "RTX 4060",
		Specs: autobuild.Specs{TDP: 115, Interface: autobuild.InterfacePCIeX16, SlotWidth: 1},
	}
	RX6600 = autobuild.Part{
		Name: "Sapphire Pulse Radeon RX 6600", Category: autobuild.GraphicsCard, Price: 5_200_000,
		BenchmarkScore: 14_000, SalesVolume: 600, Chipset: "RX 6600",
		Specs: autobuild.Specs{TDP: 132, Interface: autobuild.InterfacePCIeX16, SlotWidth: 1},
	}

	Fury16 = autobuild.Part{
		Name: "Kingston Fury Beast 16GB (2x8GB) DDR4 3200", Category: autobuild.RAM, Price: 1_100_000,
		BenchmarkScore: 50, SalesVolume: 1_500,
		Specs: autobuild.Specs{Modules: 2, ModuleSizeGB: 8},
	}
	TForce16 = autobuild.Part{
		Name: "TeamGroup T-Force Vulcan Z 16GB (1x16GB) DDR4", Category: autobuild.RAM, Price: 900_000,
		BenchmarkScore: 45, SalesVolume: 700,
		Specs: autobuild.Specs{Modules: 1, ModuleSizeGB: 16},
	}

	Samsung980 = autobuild.Part{
		Name: "Samsung 980 500GB NVMe", Category: autobuild.InternalStorage, Price: 1_200_000,
		BenchmarkScore: 90, SalesVolume: 1_000,
		Specs: autobuild.Specs{FormFactor: autobuild.FormFactorM2, M2Format: "2280"},
	}
	A400 = autobuild.Part{
		Name: "Kingston A400 480GB", Category: autobuild.InternalStorage, Price: 700_000,
		BenchmarkScore: 40, SalesVolume: 1_400,
		Specs: autobuild.Specs{FormFactor: autobuild.FormFactor25},
	}
	WDBlue = autobuild.Part{
		Name: "WD Blue 1TB 7200rpm", Category: autobuild.InternalStorage, Price: 1_000_000,
		BenchmarkScore: 20, SalesVolume: 300,
		Specs: autobuild.Specs{FormFactor: autobuild.FormFactor35},
	}

	GamingX = autobuild.Part{
		Name: "Xigmatek Gaming X", Category: autobuild.Case, Price: 800_000,
		BenchmarkScore: 5, SalesVolume: 600,
	}
	Aether = autobuild.Part{
		Name: "MIK Aether", Category: autobuild.Case, Price: 600_000,
		BenchmarkScore: 4, SalesVolume: 900,
	}

	MWE550 = autobuild.Part{
		Name: "Cooler Master MWE 550 Bronze V2", Category: autobuild.PowerSupply, Price: 1_300_000,
		BenchmarkScore: 55, SalesVolume: 1_000,
		Specs: autobuild.Specs{Wattage: 550},
	}
	PK650 = autobuild.Part{
		Name: "Deepcool PK650D", Category: autobuild.PowerSupply, Price: 1_600_000,
		BenchmarkScore: 65, SalesVolume: 500,
		Specs: autobuild.Specs{Wattage: 650},
	}
	XPower400 = autobuild.Part{
		Name: "Xigmatek X-Power III 400", Category: autobuild.PowerSupply, Price: 700_000,
		BenchmarkScore: 30, SalesVolume: 1_600,
		Specs: autobuild.Specs{Wattage: 400},
	}
)

// Parts returns every fixture part.
func Parts() []autobuild.Part {
	return []autobuild.Part{
		Ryzen5600, Ryzen5700X, Core12400F,
		AK400, SE214,
		B550M, B450MK, B760M,
		RTX3060, RTX4060, RX6600,
		Fury16, TForce16,
		Samsung980, A400, WDBlue,
		GamingX, Aether,
		MWE550, PK650, XPower400,
	}
}

// NewDesktopCatalog returns the fixture catalog minus the skipped categories,
// fully connected except across CPU sockets.
func NewDesktopCatalog(skip ...autobuild.Category) *Catalog {
	skipped := make(map[autobuild.Category]bool, len(skip))
	for _, c := range skip {
		skipped[c] = true
	}
	c := NewCatalog()
	for _, p := range Parts() {
		if !skipped[p.Category] {
			c.Add(p)
		}
	}
	c.ConnectAll()
	c.Disconnect(Core12400F, B550M).Disconnect(Core12400F, B450MK)
	c.Disconnect(Ryzen5600, B760M).Disconnect(Ryzen5700X, B760M)
	return c
}
