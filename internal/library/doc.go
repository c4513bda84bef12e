// package library reads raw playlist exports from disk.
//
// Exports are tab-separated text files with a header row, commonly encoded
// as UTF-16 with a byte order mark. [Scan] discovers export files in a
// folder, [ReadExport] decodes and parses one file, and [LoadSource] is the
// shorthand that reads a file and normalizes it in one step.
package library
