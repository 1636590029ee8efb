package scanner

import "fmt"

// Decorate renders addr as "<hex> (<hex region start> + <hex offset> in
// <region name>)" when it falls inside one of regions' eligible spans.
// Addresses outside every known region render as a bare hex value.
func Decorate(regions RegionSet, addr Address) string {
	region, ok := regions.Find(addr)
	if !ok {
		return addr.String()
	}
	offset := uint64(addr) - uint64(region.Start)
	return fmt.Sprintf("%s (%s + 0x%x in %s)", addr, region.Start, offset, region.Name)
}
