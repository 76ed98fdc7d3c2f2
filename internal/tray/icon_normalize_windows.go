//go:build windows

package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/example/scriptbar/internal/logging"
)

// platformNormalizeIcon turns an `image=` or `templateImage=` payload into
// the ICO bytes systray needs on Windows. Images that do not decode are
// dropped and the entry shows text only.
func platformNormalizeIcon(data []byte) []byte {
	if len(data) < 4 {
		return nil
	}

	if isICO(data) {
		return data
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logging.Debugf("inline image is not a decodable icon: %v", err)
		return nil
	}

	pngData := data
	if format != "png" {
		buf := new(bytes.Buffer)
		if err := png.Encode(buf, img); err != nil {
			logging.Debugf("failed to convert tray icon to png: %v", err)
			return nil
		}
		pngData = buf.Bytes()
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		logging.Debugf("inline image has invalid bounds: %dx%d", width, height)
		return nil
	}

	icoData, err := wrapPNGAsICO(pngData, width, height)
	if err != nil {
		logging.Debugf("failed to wrap tray icon PNG as ico: %v", err)
		return nil
	}

	logging.Debugf("wrapped %s entry icon (%dx%d) as ico", format, width, height)
	return icoData
}

// iconDir and iconDirEntry are the ICONDIR and ICONDIRENTRY records of an
// ICO file holding a single PNG image.
type iconDir struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type iconDirEntry struct {
	Width      uint8
	Height     uint8
	Colors     uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	Offset     uint32
}

// wrapPNGAsICO embeds a plugin's inline image as the only entry of an ICO
// file. Sizes of 256 and above are stored as 0.
func wrapPNGAsICO(pngData []byte, width, height int) ([]byte, error) {
	entry := iconDirEntry{
		Width:      icoDimension(width),
		Height:     icoDimension(height),
		Planes:     1,
		BitCount:   32,
		BytesInRes: uint32(len(pngData)),
		Offset:     uint32(binary.Size(iconDir{}) + binary.Size(iconDirEntry{})),
	}

	buf := &bytes.Buffer{}
	for _, record := range []any{iconDir{Type: 1, Count: 1}, entry} {
		if err := binary.Write(buf, binary.LittleEndian, record); err != nil {
			return nil, err
		}
	}
	buf.Write(pngData)
	return buf.Bytes(), nil
}

func icoDimension(v int) uint8 {
	if v <= 0 || v >= 256 {
		return 0
	}
	return uint8(v)
}

// isICO reports whether data already starts with an icon ICONDIR.
func isICO(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return data[0] == 0x00 && data[1] == 0x00 && data[2] == 0x01 && data[3] == 0x00
}
