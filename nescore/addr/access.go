package addr

// Access identifies which logical register a bus transaction touched.
// Every load and store on the bus produces one; it is not persisted anywhere
// except as the bus' most recent value, which debug tooling can read back.
type Access uint8

const (
	AccessNone Access = iota
	AccessRAM
	AccessPPUCtrl
	AccessPPUMask
	AccessPPUStatus
	AccessOAMAddr
	AccessOAMData
	AccessPPUScroll
	AccessPPUAddr
	AccessPPUData
	AccessAPU
	AccessOAMDMA
	AccessController1
	AccessController2
	AccessCartridge
	AccessOpenBus
)

var accessNames = [...]string{
	AccessNone:        "none",
	AccessRAM:         "ram",
	AccessPPUCtrl:     "ppuctrl",
	AccessPPUMask:     "ppumask",
	AccessPPUStatus:   "ppustatus",
	AccessOAMAddr:     "oamaddr",
	AccessOAMData:     "oamdata",
	AccessPPUScroll:   "ppuscroll",
	AccessPPUAddr:     "ppuaddr",
	AccessPPUData:     "ppudata",
	AccessAPU:         "apu",
	AccessOAMDMA:      "oamdma",
	AccessController1: "joy1",
	AccessController2: "joy2",
	AccessCartridge:   "cartridge",
	AccessOpenBus:     "openbus",
}

func (a Access) String() string {
	if int(a) < len(accessNames) {
		return accessNames[a]
	}
	return "unknown"
}

// PPURegister returns the access tag for a PPU register index (address & 7).
func PPURegister(index uint16) Access {
	return AccessPPUCtrl + Access(index&7)
}
