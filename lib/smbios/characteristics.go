package smbios

// FirmwareCharacteristics is the 64-bit BIOS characteristics bitmask of the
// firmware information structure. Bits 32-63 are reserved for the BIOS vendor
// and system vendor and carry no names here.
type FirmwareCharacteristics uint64

// Firmware characteristics bits.
const (
	CharUnknown        FirmwareCharacteristics = 1 << 2
	CharNotSupported   FirmwareCharacteristics = 1 << 3
	CharISA            FirmwareCharacteristics = 1 << 4
	CharMCA            FirmwareCharacteristics = 1 << 5
	CharEISA           FirmwareCharacteristics = 1 << 6
	CharPCI            FirmwareCharacteristics = 1 << 7
	CharPCCard         FirmwareCharacteristics = 1 << 8
	CharPlugAndPlay    FirmwareCharacteristics = 1 << 9
	CharAPM            FirmwareCharacteristics = 1 << 10
	CharUpgradeable    FirmwareCharacteristics = 1 << 11
	CharShadowing      FirmwareCharacteristics = 1 << 12
	CharVLVESA         FirmwareCharacteristics = 1 << 13
	CharESCD           FirmwareCharacteristics = 1 << 14
	CharBootFromCD     FirmwareCharacteristics = 1 << 15
	CharSelectableBoot FirmwareCharacteristics = 1 << 16
	CharROMSocketed    FirmwareCharacteristics = 1 << 17
	CharBootFromPCCard FirmwareCharacteristics = 1 << 18
	CharEDD            FirmwareCharacteristics = 1 << 19
	CharNEC9800Floppy  FirmwareCharacteristics = 1 << 20
	CharToshibaFloppy  FirmwareCharacteristics = 1 << 21
	CharFloppy525_360  FirmwareCharacteristics = 1 << 22
	CharFloppy525_1200 FirmwareCharacteristics = 1 << 23
	CharFloppy35_720   FirmwareCharacteristics = 1 << 24
	CharFloppy35_2880  FirmwareCharacteristics = 1 << 25
	CharPrintScreen    FirmwareCharacteristics = 1 << 26
	CharKeyboard8042   FirmwareCharacteristics = 1 << 27
	CharSerial         FirmwareCharacteristics = 1 << 28
	CharPrinter        FirmwareCharacteristics = 1 << 29
	CharCGAMonoVideo   FirmwareCharacteristics = 1 << 30
	CharNECPC98        FirmwareCharacteristics = 1 << 31
)

var characteristicNames = []struct {
	bit  FirmwareCharacteristics
	name string
}{
	{CharUnknown, "BIOS characteristics unknown"},
	{CharNotSupported, "BIOS characteristics not supported"},
	{CharISA, "ISA is supported"},
	{CharMCA, "MCA is supported"},
	{CharEISA, "EISA is supported"},
	{CharPCI, "PCI is supported"},
	{CharPCCard, "PC Card (PCMCIA) is supported"},
	{CharPlugAndPlay, "PNP is supported"},
	{CharAPM, "APM is supported"},
	{CharUpgradeable, "BIOS is upgradeable"},
	{CharShadowing, "BIOS shadowing is allowed"},
	{CharVLVESA, "VLB is supported"},
	{CharESCD, "ESCD support is available"},
	{CharBootFromCD, "Boot from CD is supported"},
	{CharSelectableBoot, "Selectable boot is supported"},
	{CharROMSocketed, "BIOS ROM is socketed"},
	{CharBootFromPCCard, "Boot from PC Card (PCMCIA) is supported"},
	{CharEDD, "EDD is supported"},
	{CharNEC9800Floppy, "Japanese floppy for NEC 9800 1.2 MB is supported (int 13h)"},
	{CharToshibaFloppy, "Japanese floppy for Toshiba 1.2 MB is supported (int 13h)"},
	{CharFloppy525_360, "5.25\"/360 kB floppy services are supported (int 13h)"},
	{CharFloppy525_1200, "5.25\"/1.2 MB floppy services are supported (int 13h)"},
	{CharFloppy35_720, "3.5\"/720 kB floppy services are supported (int 13h)"},
	{CharFloppy35_2880, "3.5\"/2.88 MB floppy services are supported (int 13h)"},
	{CharPrintScreen, "Print screen service is supported (int 5h)"},
	{CharKeyboard8042, "8042 keyboard services are supported (int 9h)"},
	{CharSerial, "Serial services are supported (int 14h)"},
	{CharPrinter, "Printer services are supported (int 17h)"},
	{CharCGAMonoVideo, "CGA/mono video services are supported (int 10h)"},
	{CharNECPC98, "NEC PC-98"},
}

// Has reports whether every bit of flag is set.
func (c FirmwareCharacteristics) Has(flag FirmwareCharacteristics) bool {
	return c&flag == flag
}

// Names lists the set bits in the wording dmidecode uses.
func (c FirmwareCharacteristics) Names() []string {
	var names []string
	for _, n := range characteristicNames {
		if c&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

// FirmwareCharacteristicsExt1 is characteristics extension byte 1.
type FirmwareCharacteristicsExt1 uint8

// Extension byte 1 bits.
const (
	Ext1ACPI FirmwareCharacteristicsExt1 = 1 << iota
	Ext1USBLegacy
	Ext1AGP
	Ext1I2OBoot
	Ext1LS120Boot
	Ext1ATAPIZipBoot
	Ext11394Boot
	Ext1SmartBattery
)

var ext1Names = [8]string{
	"ACPI is supported",
	"USB legacy is supported",
	"AGP is supported",
	"I2O boot is supported",
	"LS-120 boot is supported",
	"ATAPI Zip drive boot is supported",
	"IEEE 1394 boot is supported",
	"Smart battery is supported",
}

// Has reports whether every bit of flag is set.
func (c FirmwareCharacteristicsExt1) Has(flag FirmwareCharacteristicsExt1) bool {
	return c&flag == flag
}

// Names lists the set bits.
func (c FirmwareCharacteristicsExt1) Names() []string {
	return bitNames(uint8(c), ext1Names[:])
}

// FirmwareCharacteristicsExt2 is characteristics extension byte 2.
type FirmwareCharacteristicsExt2 uint8

// Extension byte 2 bits.
const (
	Ext2BootSpecification FirmwareCharacteristicsExt2 = 1 << iota
	Ext2NetworkBootKey
	Ext2TargetedContentDistribution
	Ext2UEFI
	Ext2VirtualMachine
	Ext2ManufacturingModeSupported
	Ext2ManufacturingModeEnabled
)

var ext2Names = [7]string{
	"BIOS boot specification is supported",
	"Function key-initiated network boot is supported",
	"Targeted content distribution is supported",
	"UEFI is supported",
	"System is a virtual machine",
	"Manufacturing mode is supported",
	"Manufacturing mode is enabled",
}

// Has reports whether every bit of flag is set.
func (c FirmwareCharacteristicsExt2) Has(flag FirmwareCharacteristicsExt2) bool {
	return c&flag == flag
}

// Names lists the set bits. Bit 7 is reserved.
func (c FirmwareCharacteristicsExt2) Names() []string {
	return bitNames(uint8(c), ext2Names[:])
}

func bitNames(v uint8, names []string) []string {
	var out []string
	for i, name := range names {
		if v&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}
