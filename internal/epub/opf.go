package epub

import "encoding/xml"

// Container is META-INF/container.xml.
type Container struct {
	XMLName   xml.Name   `xml:"container"`
	Rootfiles []Rootfile `xml:"rootfiles>rootfile"`
}

// Rootfile points at a package document inside the archive.
type Rootfile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// Package is the OPF package document.
type Package struct {
	XMLName          xml.Name  `xml:"package"`
	Version          string    `xml:"version,attr"`
	UniqueIdentifier string    `xml:"unique-identifier,attr"`
	Meta             Metadata  `xml:"metadata"`
	Manifest         []Item    `xml:"manifest>item"`
	Spine            []ItemRef `xml:"spine>itemref"`
}

// Metadata holds the Dublin Core fields the builder writes.
type Metadata struct {
	Identifier  string `xml:"identifier"`
	Title       string `xml:"title"`
	Language    string `xml:"language"`
	Creator     string `xml:"creator"`
	Publisher   string `xml:"publisher"`
	Rights      string `xml:"rights"`
	Description string `xml:"description"`
	Date        string `xml:"date"`
}

// Item is a manifest entry.
type Item struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

// ItemRef is a spine entry.
type ItemRef struct {
	IDRef string `xml:"idref,attr"`
}
