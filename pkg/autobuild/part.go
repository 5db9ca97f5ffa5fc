package autobuild

import "strings"

// Expansion slot interfaces a motherboard can expose and a graphics card can use.
const (
	InterfacePCIeX16 = "PCIe x16"
	InterfacePCIeX8  = "PCIe x8"
	InterfacePCIeX4  = "PCIe x4"
	InterfacePCIeX1  = "PCIe x1"
	InterfacePCI     = "PCI"
)

// Storage form factors.
const (
	FormFactor25    = `2.5"`
	FormFactor35    = `3.5"`
	FormFactorMSATA = "mSATA"
	FormFactorM2    = "M.2"
)

// Part is a catalog item. It is copied by value into pools and configurations
// and never mutated after it leaves the store.
type Part struct {
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	Price          int64    `json:"price"`
	BenchmarkScore float64  `json:"benchmark_score,omitempty"`
	SalesVolume    int64    `json:"sales_volume,omitempty"`
	Chipset        string   `json:"chipset,omitempty"`
	Specs          Specs    `json:"specs"`
}

// Specs holds the category specific attributes used by the dynamic checks.
// Fields that do not apply to a category stay zero.
type Specs struct {
	// CPU, GraphicsCard
	TDP int `json:"tdp,omitempty"`

	// PowerSupply
	Wattage int `json:"wattage,omitempty"`

	// Motherboard
	MemorySlots int      `json:"memory_slots,omitempty"`
	MaxMemoryGB int      `json:"max_memory_gb,omitempty"`
	PCIeX16     int      `json:"pcie_x16,omitempty"`
	PCIeX8      int      `json:"pcie_x8,omitempty"`
	PCIeX4      int      `json:"pcie_x4,omitempty"`
	PCIeX1      int      `json:"pcie_x1,omitempty"`
	PCI         int      `json:"pci,omitempty"`
	SATASlots   int      `json:"sata_slots,omitempty"`
	MSATASlots  int      `json:"msata_slots,omitempty"`
	M2Slots     []string `json:"m2_slots,omitempty"`

	// RAM
	Modules      int `json:"modules,omitempty"`
	ModuleSizeGB int `json:"module_size_gb,omitempty"`

	// GraphicsCard
	Interface string `json:"interface,omitempty"`
	SlotWidth int    `json:"slot_width,omitempty"`

	// InternalStorage
	FormFactor string `json:"form_factor,omitempty"`
	M2Format   string `json:"m2_format,omitempty"`
}

// IsZero reports whether the part is the empty slot value.
func (p Part) IsZero() bool {
	return p.Name == ""
}

// SlotsFor returns the number of expansion slots the motherboard exposes for
// the interface and whether the interface exists on the board at all.
func (s Specs) SlotsFor(iface string) (int, bool) {
	var n int
	switch NormalizeInterface(iface) {
	case InterfacePCIeX16:
		n = s.PCIeX16
	case InterfacePCIeX8:
		n = s.PCIeX8
	case InterfacePCIeX4:
		n = s.PCIeX4
	case InterfacePCIeX1:
		n = s.PCIeX1
	case InterfacePCI:
		n = s.PCI
	default:
		return 0, false
	}
	return n, n > 0
}

// TotalMemoryGB is the capacity of a RAM kit.
func (s Specs) TotalMemoryGB() int {
	return s.Modules * s.ModuleSizeGB
}

// Width is the number of interface slots a graphics card occupies (at least one).
func (s Specs) Width() int {
	if s.SlotWidth < 1 {
		return 1
	}
	return s.SlotWidth
}

// NormalizeInterface maps spellings such as "PCIe 4.0 x16" to the canonical
// interface constant. Unknown values are returned unchanged.
func NormalizeInterface(iface string) string {
	compact := strings.ToLower(strings.ReplaceAll(iface, " ", ""))
	switch compact {
	case "pciex16", "pcie3.0x16", "pcie4.0x16", "pcie5.0x16":
		return InterfacePCIeX16
	case "pciex8", "pcie3.0x8", "pcie4.0x8", "pcie5.0x8":
		return InterfacePCIeX8
	case "pciex4", "pcie3.0x4", "pcie4.0x4", "pcie5.0x4":
		return InterfacePCIeX4
	case "pciex1", "pcie3.0x1", "pcie4.0x1":
		return InterfacePCIeX1
	case "pci":
		return InterfacePCI
	}
	return iface
}

// PartKey identifies a graph node.
type PartKey struct {
	Name     string
	Category Category
}

func (p Part) Key() PartKey {
	return PartKey{Name: p.Name, Category: p.Category}
}

// PartRef is a user mention of a part, not yet resolved against the catalog.
type PartRef struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	// ByChipset marks a graphics card hint given by chipset ("RTX 4060")
	// rather than by full product name.
	ByChipset bool `json:"by_chipset,omitempty"`
}

// PartsByCategory groups resolved preferred parts.
type PartsByCategory map[Category][]Part

// Cost sums the price of every part, used to commit preferred parts to the budget.
func (p PartsByCategory) Cost() int64 {
	var total int64
	for _, parts := range p {
		for _, part := range parts {
			total += part.Price
		}
	}
	return total
}

// Len is the number of resolved parts across all categories.
func (p PartsByCategory) Len() int {
	n := 0
	for _, parts := range p {
		n += len(parts)
	}
	return n
}
