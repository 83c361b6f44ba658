// Package mmap maps documents into memory read-only.
//
// VIM files routinely reach several gigabytes, most of it geometry. With the
// file mapped, the container reader hands out buffer sections without
// copying, and a load that skips geometry never faults those pages in.
//
//	m, err := mmap.Open("tower.vim")
//	if err != nil { ... }
//	defer m.Close()
//
//	geometry, _ := m.Section(off, n)
//	_ = geometry.Advise(mmap.WillNeed)
//
// Unix uses mmap(2) and madvise(2). On Windows Advise is a no-op.
// Slices returned by Bytes must not outlive Close.
package mmap
