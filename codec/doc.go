// Package codec encodes compacted meshes into a self-describing binary format.
//
// # Format
//
// All integers are little endian.
//
//	offset  size  field
//	0       4     magic "TETG"
//	4       2     format version
//	6       1     compression (none, lz4, zstd)
//	7       1     flags (bit 0: infinite shell retained)
//	8       4     number of points
//	12      4     number of cells
//	16      4     number of finite cells
//	20      4     raw payload size
//	24      4     stored payload size
//	28      4     CRC32-Castagnoli of the raw payload
//	32      ...   payload
//
// The raw payload holds the cell vertex array followed by the cell neighbor
// array, 4 int32 per cell each. When compression does not shrink the
// payload by at least 10% it is stored uncompressed.
//
// # Usage
//
//	var buf bytes.Buffer
//	err := codec.Encode(&buf, mesh, codec.CompressionZSTD)
//	...
//	mesh, err := codec.Decode(&buf)
package codec
