package descriptors

type ClassCode byte

const (
	ClassCodeVideo ClassCode = 0x0E
)

type SubclassCode byte

const (
	SubclassCodeUndefined      SubclassCode = 0x00
	SubclassCodeVideoControl   SubclassCode = 0x01
	SubclassCodeVideoStreaming SubclassCode = 0x02
)

// Standard descriptor types from the USB 2.0 spec, table 9-5. Only the ones
// the config descriptor walk needs.
type DescriptorType byte

const (
	DescriptorTypeConfiguration DescriptorType = 0x02
	DescriptorTypeInterface     DescriptorType = 0x04
)

type ClassSpecificDescriptorType byte

const (
	ClassSpecificDescriptorTypeUndefined     ClassSpecificDescriptorType = 0x20
	ClassSpecificDescriptorTypeDevice        ClassSpecificDescriptorType = 0x21
	ClassSpecificDescriptorTypeConfiguration ClassSpecificDescriptorType = 0x22
	ClassSpecificDescriptorTypeString        ClassSpecificDescriptorType = 0x23
	ClassSpecificDescriptorTypeInterface     ClassSpecificDescriptorType = 0x24
	ClassSpecificDescriptorTypeEndpoint      ClassSpecificDescriptorType = 0x25
)
