package details

// Field keys in the order they appear in generated files.
const (
	NameKeyConstant     = "name"
	RevisionKeyConstant = "revision"
	BranchKeyConstant   = "branch"
	TagKeyConstant      = "tag"
	URLKeyConstant      = "url"
	GitKeyConstant      = "git"
	IsDirtyKeyConstant  = "is_dirty"
)

// Details captures the identity and state of a working tree at build time.
type Details struct {
	Name     string
	Revision string
	Branch   string
	Tag      string
	URL      string
	Git      string
	IsDirty  bool
}

// Field is a single key and value of Details. Value holds a string or a bool.
type Field struct {
	Key   string
	Value any
}

// Fields lists all seven entries in their fixed order.
func (details Details) Fields() []Field {
	return []Field{
		{Key: NameKeyConstant, Value: details.Name},
		{Key: RevisionKeyConstant, Value: details.Revision},
		{Key: BranchKeyConstant, Value: details.Branch},
		{Key: TagKeyConstant, Value: details.Tag},
		{Key: URLKeyConstant, Value: details.URL},
		{Key: GitKeyConstant, Value: details.Git},
		{Key: IsDirtyKeyConstant, Value: details.IsDirty},
	}
}
