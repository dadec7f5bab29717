// ABOUTME: Version information for audioconvert-go
// ABOUTME: Product, manufacturer and version strings shown by the tools
package version

const (
	// Version is the module release
	Version = "0.3.0"

	// Product is the product name
	Product = "audioconvert-go"

	// Manufacturer is the maintainer
	Manufacturer = "Resonate Protocol"
)

// String returns "Product Version"
func String() string {
	return Product + " " + Version
}
