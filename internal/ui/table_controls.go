package ui

// tableController is the subset of a list screen the nav handler drives.
type tableController interface {
	NextColumn()
	PrevColumn()
	JumpToColumn(number int) bool
	ActiveColumn() int
	TableID() string
	TableMeta() string
}
