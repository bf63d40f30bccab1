//go:build !unix && !windows

package platform

var defaultProvider Provider = NewHeapMemory(4096)
