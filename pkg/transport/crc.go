package transport

// CRC polynomial and initial value shared by both ends of the link
// (CRC-16/CCITT-FALSE: poly 0x1021, init 0xFFFF, xorout 0x0000).
const (
	crcPoly uint16 = 0x1021
	crcInit uint16 = 0xFFFF
)

// UpdateCRC feeds bytes into a running checksum.
func UpdateCRC(crc uint16, data []byte) uint16 {
	for _, b := range data {
		crc ^= uint16(b) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crcPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// Checksum computes the checksum of data in one call.
func Checksum(data []byte) uint16 {
	return UpdateCRC(crcInit, data)
}
