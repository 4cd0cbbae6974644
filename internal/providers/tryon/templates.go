package tryon

import (
	"fmt"
	"strings"

	"veostudio/internal/domain"
)

// Template is one fixed (prompt, label) pair. Labels are a fixed vocabulary
// per style, never server data.
type Template struct {
	Prompt string
	Label  string
}

const (
	StyleFashion = "fashion"
	StyleTeacher = "teacher"
	StyleWork    = "work"
)

const (
	accessoryClause = "Đồng thời, kết hợp phụ kiện từ ảnh thứ ba một cách tự nhiên."
	ratioClause     = "Tạo hình ảnh với tỷ lệ khung hình %s."
)

// templateSets maps a style tag to its fixed template array. Every style
// carries exactly four templates, so every job yields four images.
var templateSets = map[string][]Template{
	StyleFashion: {
		{
			Prompt: "Tạo một bức ảnh thời trang toàn thân, người trong ảnh đầu tiên mặc trang phục từ ảnh thứ hai, đang đi dạo trong một công viên xanh mát với nhiều cây cối và ánh nắng nhẹ.",
			Label:  "Dạo phố công viên",
		},
		{
			Prompt: "Tạo một bức ảnh thời trang đường phố, người trong ảnh đầu tiên mặc trang phục từ ảnh thứ hai, đang tự tin sải bước trên một con phố đông đúc của thành phố.",
			Label:  "Thời trang đường phố",
		},
		{
			Prompt: "Tạo một bức ảnh thanh lịch, người trong ảnh đầu tiên mặc trang phục từ ảnh thứ hai, đang ở trong một không gian sang trọng như sảnh khách sạn 5 sao hoặc một buổi tiệc tối cao cấp.",
			Label:  "Không gian sang trọng",
		},
		{
			Prompt: "Tạo một bức ảnh nghệ thuật, người trong ảnh đầu tiên mặc trang phục từ ảnh thứ hai, đang tạo dáng trong một không gian mang phong cách hoài cổ, như một quán cà phê vintage hoặc một con hẻm cổ kính với tường gạch cũ.",
			Label:  "Không gian hoài cổ",
		},
	},
	StyleTeacher: {
		{
			Prompt: "Tạo một bức ảnh chân dung của người trong ảnh đầu tiên (cô giáo) mặc trang phục từ ảnh thứ hai. Cô giáo đang đứng một mình giữa một cánh đồng hoa rực rỡ. Hậu cảnh cánh đồng hoa phía sau được xóa phông với hiệu ứng bokeh đẹp mắt, làm nổi bật cô giáo.",
			Label:  "Chân dung nền hoa bokeh",
		},
		{
			Prompt: "Tạo một bức ảnh chân thực trong đó người từ ảnh đầu tiên (cô giáo) mặc trang phục từ ảnh thứ hai, đang ngồi trên một chiếc ghế đá trong sân trường. Xung quanh cô là các em học sinh đang vui vẻ tặng hoa cho cô.",
			Label:  "Học sinh tặng hoa",
		},
		{
			Prompt: "Tạo một bức ảnh trong đó người từ ảnh đầu tiên (cô giáo) mặc trang phục từ ảnh thứ hai, đang đứng giữa sân trường rợp bóng hoa phượng đỏ. Cô giáo nắm tay các em học sinh, tạo thành một vòng tròn ấm cúng.",
			Label:  "Sân trường hoa phượng",
		},
		{
			Prompt: "Tạo một bức ảnh đầy chất thơ: người từ ảnh đầu tiên (cô giáo) mặc trang phục từ ảnh thứ hai, đang ngồi ở trung tâm trên một bãi cỏ xanh mướt. Các em học sinh ngồi thành vòng tròn xung quanh cô. Những cánh hoa anh đào trắng đang nhẹ nhàng rơi xuống, tạo nên một khung cảnh huyền ảo.",
			Label:  "Vòng tròn hoa anh đào",
		},
	},
	StyleWork: {
		{
			Prompt: "Tạo một bức ảnh chuyên nghiệp, người trong ảnh đầu tiên mặc trang phục từ ảnh thứ hai, đang đứng tự tin trong một không gian văn phòng hiện đại và sáng sủa.",
			Label:  "Đứng trong văn phòng",
		},
		{
			Prompt: "Tạo một bức ảnh người trong ảnh đầu tiên mặc trang phục từ ảnh thứ hai, đang đứng ở sảnh của một tòa nhà công ty sang trọng. Hậu cảnh là quầy lễ tân và có thể thấy logo công ty.",
			Label:  "Sảnh tòa nhà công ty",
		},
		{
			Prompt: "Tạo một bức ảnh người trong ảnh đầu tiên mặc trang phục từ ảnh thứ hai, đang ngồi tại bàn làm việc của mình. Bàn làm việc gọn gàng, có máy tính xách tay và một vài vật dụng văn phòng, trông rất chuyên nghiệp.",
			Label:  "Ngồi tại bàn làm việc",
		},
		{
			Prompt: "Tạo một bức ảnh người trong ảnh đầu tiên mặc trang phục từ ảnh thứ hai, đang đứng thuyết trình trước một màn hình chiếu lớn trong phòng họp. Phía dưới là các nhân viên khác đang ngồi quanh bàn họp và chăm chú lắng nghe.",
			Label:  "Thuyết trình trong phòng họp",
		},
	},
}

// TemplatesFor resolves the fixed template array for a style tag.
// Unsupported styles fail explicitly instead of falling through to a
// default.
func TemplatesFor(style string) ([]Template, error) {
	templates, ok := templateSets[style]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported style %q", domain.ErrInvalidInput, style)
	}
	return templates, nil
}

// renderPrompt appends the accessory-inclusion clause (when the job carries
// an accessory) and the aspect-ratio clause to a template's prompt text.
func renderPrompt(t Template, hasAccessory bool, aspectRatio string) string {
	parts := []string{t.Prompt}
	if hasAccessory {
		parts = append(parts, accessoryClause)
	}
	parts = append(parts, fmt.Sprintf(ratioClause, aspectRatio))
	return strings.Join(parts, " ")
}
