package sanbot

// Byte 命令载荷中的一个可选字节。
// 原始指令表用有符号 -1 标记"该字段不存在"，载荷序列化时直接丢弃；
// 这里以显式的 present 标志建模，使字面值 0xFF 也能作为合法载荷字节。
type Byte struct {
	value   byte
	present bool
}

// B 构造一个存在的载荷字节。
func B(v byte) Byte {
	return Byte{value: v, present: true}
}

// Absent 构造一个缺省占位字节（序列化时丢弃）。
func Absent() Byte {
	return Byte{}
}

// FromSigned 按原始指令表的有符号约定转换：-1 视为缺省，其余按无符号解释。
func FromSigned(v int8) Byte {
	if v == -1 {
		return Absent()
	}
	return B(byte(v))
}

// Present 该字节是否存在。
func (b Byte) Present() bool { return b.present }

// Value 返回字节值；缺省字节返回 0。
func (b Byte) Value() byte { return b.value }

// CommandPayload 一条待编码命令：模式字节 + 有序参数字节。
// 模式与参数的取值来自指令目录，对编码层完全不透明。
type CommandPayload struct {
	Mode         byte
	OrderedBytes []Byte
}

// BuildDatas 展开载荷为 datas 区字节序列：模式字节在前，参数按原顺序追加，
// 缺省字节被丢弃。除丢弃缺省外不做任何变换。
func (p CommandPayload) BuildDatas() []byte {
	datas := make([]byte, 0, 1+len(p.OrderedBytes))
	datas = append(datas, p.Mode)
	for _, b := range p.OrderedBytes {
		if !b.present {
			continue
		}
		datas = append(datas, b.value)
	}
	return datas
}
