package entity

import (
	"fmt"
	"strings"
)

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	case "avif":
		return FormatAVIF, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	case FormatWebP:
		return ".webp"
	case FormatAVIF:
		return ".avif"
	}
	return ""
}

func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	case FormatAVIF:
		return "image/avif"
	}
	return "application/octet-stream"
}

// SupportsAlpha reports whether the encoding can carry an alpha channel.
func (f Format) SupportsAlpha() bool {
	return f == FormatPNG || f == FormatWebP || f == FormatAVIF
}

func (f Format) IsValid() bool {
	return f.Extension() != ""
}

type Role string

const (
	RoleFull    Role = "full"
	RolePreview Role = "preview"
)

type TransparencyPolicy int

const (
	TransparencyPreserve TransparencyPolicy = iota
	TransparencyFlatten
)

type SourceImage struct {
	Filename string
	Data     []byte
}

func NewSourceImage(filename string, data []byte) SourceImage {
	return SourceImage{Filename: filename, Data: data}
}

// Derivative is one written file. For full derivatives RelativePath is
// {h0h1}/{h2h3}/{h4h5}/{digest}_{W}x{H}{ext}; the source filename is not
// part of it.
type Derivative struct {
	Format       Format
	Role         Role
	MaxWidth     int
	MaxHeight    int
	Quality      int
	Width        int
	Height       int
	Size         int64
	RelativePath string
	URL          string
}
