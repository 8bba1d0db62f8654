/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package report

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Image is a decoded picture ready to be embedded in a PDF.
type Image struct {
	// Type is the fpdf image type: "PNG", "JPG" or "GIF".
	Type string
	Data []byte
}

var imageTypes = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPG",
	"image/jpg":  "JPG",
	"image/gif":  "GIF",
}

// DecodeDataURL decodes a base64 data URL such as data:image/png;base64,....
func DecodeDataURL(dataURL string) (Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(dataURL), "data:")
	if !ok {
		return Image{}, ErrInvalidDataURL
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, ErrInvalidDataURL
	}

	mime, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return Image{}, ErrInvalidDataURL
	}

	kind, ok := imageTypes[strings.ToLower(mime)]
	if !ok {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, mime)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}

	return Image{Type: kind, Data: data}, nil
}

// DataURL encodes an image as a base64 data URL.
func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
