package hdd

// Geometry mirrors the leading fields of DISK_GEOMETRY_EX as eight 32-bit words.
type Geometry struct {
	CylindersLow      uint32
	CylindersHigh     uint32
	MediaType         uint32
	TracksPerCylinder uint32
	SectorsPerTrack   uint32
	BytesPerSector    uint32
	// Extra holds the low and high words of the reported disk size.
	Extra [2]uint32
}

// fixedMedia is MEDIA_TYPE FixedMedia.
const fixedMedia = 12

// DiskSize derives the total size in bytes from cylinder/track/sector counts.
func (g Geometry) DiskSize() uint64 {
	return (uint64(g.CylindersLow) + uint64(g.CylindersHigh)) *
		uint64(g.TracksPerCylinder) *
		uint64(g.SectorsPerTrack) *
		uint64(g.BytesPerSector)
}

func geometryFromWords(w []uint32) Geometry {
	return Geometry{
		CylindersLow:      w[0],
		CylindersHigh:     w[1],
		MediaType:         w[2],
		TracksPerCylinder: w[3],
		SectorsPerTrack:   w[4],
		BytesPerSector:    w[5],
		Extra:             [2]uint32{w[6], w[7]},
	}
}

// synthesizeGeometry builds a CHS view of a device known only by its byte
// size, using the 255 heads / 63 sectors translation Windows reports for
// large disks. Devices smaller than one such cylinder get a flat layout.
func synthesizeGeometry(size uint64) Geometry {
	sectors := size / SectorSize
	g := Geometry{
		MediaType:         fixedMedia,
		TracksPerCylinder: 255,
		SectorsPerTrack:   63,
		BytesPerSector:    SectorSize,
		Extra:             [2]uint32{uint32(size), uint32(size >> 32)},
	}
	if sectors < 255*63 {
		g.TracksPerCylinder, g.SectorsPerTrack = 1, 1
	}
	cyl := sectors / uint64(g.TracksPerCylinder*g.SectorsPerTrack)
	g.CylindersLow = uint32(cyl)
	g.CylindersHigh = uint32(cyl >> 32)
	return g
}
