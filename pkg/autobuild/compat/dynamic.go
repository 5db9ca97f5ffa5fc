package compat

import (
	"strings"

	"pc-autobuild-be/pkg/autobuild"
)

// Zero valued limits on a motherboard mean the catalog does not know them;
// such limits are not enforced.

func checkRAM(ram autobuild.Part, cfg autobuild.Configuration) bool {
	mb, ok := cfg.Get(autobuild.Motherboard)
	if !ok {
		return true
	}
	return ramFits(mb.Specs, ram.Specs)
}

func ramFits(mb, ram autobuild.Specs) bool {
	if mb.MemorySlots > 0 && ram.Modules > mb.MemorySlots {
		return false
	}
	if mb.MaxMemoryGB > 0 && ram.TotalMemoryGB() > mb.MaxMemoryGB {
		return false
	}
	return true
}

func checkGraphicsCard(gpu autobuild.Part, cfg autobuild.Configuration) bool {
	mb, ok := cfg.Get(autobuild.Motherboard)
	if !ok {
		return true
	}
	// A configuration seats one card and the candidate replaces it, so no
	// slot is taken yet.
	return gpuFits(mb.Specs, gpu.Specs, 0)
}

func gpuFits(mb, gpu autobuild.Specs, used int) bool {
	total, ok := mb.SlotsFor(gpu.Interface)
	if !ok {
		return false
	}
	return total-used >= gpu.Width()
}

func checkMotherboard(mb autobuild.Part, cfg autobuild.Configuration) bool {
	if ram, ok := cfg.Get(autobuild.RAM); ok && !ramFits(mb.Specs, ram.Specs) {
		return false
	}
	if gpu, ok := cfg.Get(autobuild.GraphicsCard); ok && !gpuFits(mb.Specs, gpu.Specs, 0) {
		return false
	}
	if drive, ok := cfg.Get(autobuild.InternalStorage); ok && !storageFits(mb.Specs, drive.Specs) {
		return false
	}
	return true
}

func checkStorage(drive autobuild.Part, cfg autobuild.Configuration) bool {
	mb, ok := cfg.Get(autobuild.Motherboard)
	if !ok {
		return true
	}
	return storageFits(mb.Specs, drive.Specs)
}

func storageFits(mb, drive autobuild.Specs) bool {
	switch drive.FormFactor {
	case autobuild.FormFactor25, autobuild.FormFactor35:
		return mb.SATASlots > 0
	case autobuild.FormFactorMSATA:
		return mb.MSATASlots > 0
	case autobuild.FormFactorM2:
		// A drive with no known size fits any M.2 slot.
		if drive.M2Format == "" {
			return len(mb.M2Slots) > 0
		}
		for _, slot := range mb.M2Slots {
			if strings.Contains(slot, drive.M2Format) {
				return true
			}
		}
		return false
	}
	return false
}

func checkPowerSupply(psu autobuild.Part, cfg autobuild.Configuration) bool {
	draw := autobuild.EstimatedDraw(cfg, autobuild.PowerSupply)
	return float64(psu.Specs.Wattage) >= autobuild.RequiredWattage(draw)
}
