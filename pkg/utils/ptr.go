package utils

func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }

func Uint64Ptr(u uint64) *uint64 { return &u }
