// Package mzml provides a streaming reader for the MS/MS spectra of mzML files
package mzml

import (
	"encoding/xml"
	"errors"
)

var (
	// ErrUnsupportedCompression means the binary arrays use a compression
	// the reader cannot decode (MS-Numpress)
	ErrUnsupportedCompression = errors.New("mzml: unsupported compression")
	// ErrArrayLength means the m/z and intensity arrays differ in length
	ErrArrayLength = errors.New("mzml: array length mismatch")
)

// CV accessions used by the reader
const (
	accMSLevel        = "MS:1000511"
	accScanStartTime  = "MS:1000016"
	accSelectedIonMZ  = "MS:1000744"
	accChargeState    = "MS:1000041"
	accZlib           = "MS:1000574"
	accMZArray        = "MS:1000514"
	accIntensityArray = "MS:1000515"
	accFloat64        = "MS:1000523"
	accFloat32        = "MS:1000521"
	unitMinute        = "UO:0000031"
	unitMinuteMS      = "MS:1000038"
)

// numpress accessions, plain and followed by zlib
var numpress = map[string]bool{
	"MS:1002312": true,
	"MS:1002313": true,
	"MS:1002314": true,
	"MS:1002746": true,
	"MS:1002747": true,
	"MS:1002748": true,
}

// The subset of a <spectrum> element that the reader needs
type spectrum struct {
	XMLName             xml.Name            `xml:"spectrum"`
	Index               int                 `xml:"index,attr"`
	ID                  string              `xml:"id,attr"`
	DefaultArrayLength  int                 `xml:"defaultArrayLength,attr"`
	CvPar               []cvParam           `xml:"cvParam"`
	ScanList            scanList            `xml:"scanList"`
	PrecursorList       precursorList       `xml:"precursorList"`
	BinaryDataArrayList binaryDataArrayList `xml:"binaryDataArrayList"`
}

type scanList struct {
	Scan []scan `xml:"scan"`
}

type scan struct {
	CvPar []cvParam `xml:"cvParam"`
}

type precursorList struct {
	Precursor []precursor `xml:"precursor"`
}

type precursor struct {
	SelectedIon []selectedIon `xml:"selectedIonList>selectedIon"`
}

type selectedIon struct {
	CvPar []cvParam `xml:"cvParam"`
}

type binaryDataArrayList struct {
	BinaryDataArray []binaryDataArray `xml:"binaryDataArray"`
}

type binaryDataArray struct {
	CvPar  []cvParam `xml:"cvParam"`
	Binary string    `xml:"binary"`
}

// cvParam is a controlled vocabulary term
type cvParam struct {
	Accession     string `xml:"accession,attr"`
	Name          string `xml:"name,attr"`
	Value         string `xml:"value,attr"`
	UnitAccession string `xml:"unitAccession,attr"`
}

func findParam(params []cvParam, accession string) (cvParam, bool) {
	for _, p := range params {
		if p.Accession == accession {
			return p, true
		}
	}
	return cvParam{}, false
}
