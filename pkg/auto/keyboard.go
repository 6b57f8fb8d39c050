package auto

import (
	"fmt"
	"unicode"
)

// ShiftKey 上档键名称
const ShiftKey = "shift"

// KeyDown 作为 KeyPresses 参数时只按下该键
type KeyDown string

// KeyUp 作为 KeyPresses 参数时只释放该键
type KeyUp string

// KeyDownUp 作为 KeyPresses 参数时按下并释放该键
type KeyDownUp string

// KeyStroke 输入一个字符所需的按键
type KeyStroke struct {
	Key   string
	Shift bool
}

// KeyboardLayout 字符到按键的映射
type KeyboardLayout map[rune]KeyStroke

// DefaultKeyboardLayout 美式键盘布局，字母数字加常用符号
func DefaultKeyboardLayout() KeyboardLayout {
	layout := KeyboardLayout{
		'\n': {Key: "return"},
		' ':  {Key: "space"},
		'\t': {Key: "tab"},
		'.':  {Key: "period"},
		',':  {Key: "comma"},
		'-':  {Key: "minus"},
		'\'': {Key: "apostrophe"},
		'!':  {Key: "exclam", Shift: true},
		'"':  {Key: "quotedbl", Shift: true},
		'@':  {Key: "at", Shift: true},
		'&':  {Key: "ampersand", Shift: true},
	}
	for r := 'a'; r <= 'z'; r++ {
		layout[r] = KeyStroke{Key: string(r)}
		layout[unicode.ToUpper(r)] = KeyStroke{Key: string(r), Shift: true}
	}
	for r := '0'; r <= '9'; r++ {
		layout[r] = KeyStroke{Key: string(r)}
	}
	return layout
}

// Lookup 查找字符对应的按键
func (l KeyboardLayout) Lookup(r rune) (KeyStroke, error) {
	ks, ok := l[r]
	if !ok {
		return KeyStroke{}, fmt.Errorf("键盘布局不支持字符 %q", r)
	}
	return ks, nil
}
