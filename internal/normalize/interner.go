package normalize

// Interner 为取值分配稠密的代理键：首次出现分配 nextID，之后复用同一 id。
// id 从 1 开始，按首次出现顺序递增，单次运行内不复用。
// 空值单独占用一个 id，与任何真实取值（包括字面量 `\N`）都不冲突。
type Interner struct {
	ids    map[string]int
	nullID int
	labels []*string
}

// NewInterner 创建空的 Interner
func NewInterner() *Interner {
	return &Interner{ids: make(map[string]int)}
}

// InternOrAssign 返回 value 的 id，未见过时分配新 id
func (in *Interner) InternOrAssign(value string) int {
	if id, ok := in.ids[value]; ok {
		return id
	}
	v := value
	in.labels = append(in.labels, &v)
	id := len(in.labels)
	in.ids[value] = id
	return id
}

// InternNull 返回空值的 id，首次调用时分配
func (in *Interner) InternNull() int {
	if in.nullID == 0 {
		in.labels = append(in.labels, nil)
		in.nullID = len(in.labels)
	}
	return in.nullID
}

// Len 已分配的 id 数量
func (in *Interner) Len() int { return len(in.labels) }

// Labels 按 id 顺序返回全部取值，下标 i 对应 id i+1，空值为 nil
func (in *Interner) Labels() []*string {
	out := make([]*string, len(in.labels))
	for i, l := range in.labels {
		if l != nil {
			v := *l
			out[i] = &v
		}
	}
	return out
}
