package service

import "github.com/uniportal/thesis-portal/internal/core/domain"

// MenuItem is one entry of a role-scoped side menu. Purely declarative:
// the shell carries no access-control logic of its own; every target
// path is guarded again at the destination.
type MenuItem struct {
	ID       string     `json:"id"`
	Icon     string     `json:"icon,omitempty"`
	Label    string     `json:"label"`
	Path     string     `json:"path"`
	Children []MenuItem `json:"children,omitempty"`
}

// Menu is the navigation shell served to an authenticated user: the menu
// of their primary role plus the statically default-expanded item IDs.
type Menu struct {
	Role     domain.Role `json:"role"`
	Items    []MenuItem  `json:"items"`
	Expanded []string    `json:"expanded,omitempty"`
}

var adminMenu = []MenuItem{
	{ID: "create-account", Icon: "user-plus", Label: "Tạo tài khoản mới", Path: "/admin/create-account"},
	{ID: "manage-permissions", Icon: "shield", Label: "Phân quyền tài khoản", Path: "/admin/manage-permissions"},
	{ID: "statistics", Icon: "bar-chart", Label: "Thống kê hệ thống", Path: "/admin/statistics"},
	{ID: "settings", Icon: "settings", Label: "Cài đặt hệ thống", Path: "/admin/settings"},
}

var lecturerMenu = []MenuItem{
	{ID: "dashboard", Icon: "clipboard-list", Label: "Bàn làm việc", Path: "/lecturer/dashboard"},
	{ID: "recent-access", Icon: "users", Label: "Truy cập gần đây", Path: "/lecturer/recent-access"},
	{
		ID: "topic-management", Icon: "file-text", Label: "Quản lý đề tài đồ án tốt nghiệp", Path: "/lecturer/topic-management",
		Children: []MenuItem{
			{ID: "manage-council", Label: "Quản lý hội đồng", Path: "/lecturer/manage-council"},
			{ID: "confirm-student-registration", Label: "Giảng viên xác nhận sinh viên đăng ký đề tài", Path: "/lecturer/confirm-student-registration"},
		},
	},
	{
		ID: "thesis-management", Icon: "users", Label: "Quản lý đồ án tốt nghiệp", Path: "/lecturer/thesis-management",
		Children: []MenuItem{
			{ID: "student-reviewer-list", Label: "Danh sách sinh viên phản biện và hội đồng", Path: "/lecturer/student-reviewer-list"},
			{ID: "evaluate-reports", Label: "Giảng viên đánh giá, nhận xét báo cáo", Path: "/lecturer/evaluate-reports"},
			{ID: "confirm-registration", Label: "Giảng viên xác nhận sinh viên đăng ký đề tài", Path: "/lecturer/confirm-student-registration"},
		},
	},
	{ID: "news-management", Icon: "list", Label: "Quản lý danh mục Tin", Path: "/lecturer/news-management"},
}

// lecturerExpanded is the static default-expanded set for the lecturer
// shell; expand/collapse beyond this is local UI state only.
var lecturerExpanded = []string{"topic-management", "thesis-management"}

var studentMenu = []MenuItem{
	{ID: "info", Icon: "user", Label: "Thông tin sinh viên", Path: "/student/info"},
	{ID: "register-topic", Icon: "book-open", Label: "Đăng ký đề tài đồ án tốt nghiệp", Path: "/student/register-topic"},
	{ID: "reviewers", Icon: "users", Label: "Xem giảng viên phản biện và hội đồng", Path: "/student/reviewers"},
	{ID: "defense-result", Icon: "file-check", Label: "Kết quả bảo vệ", Path: "/student/defense-result"},
}

// NavigationFor resolves the shell for a raw role set. Role sets without
// a recognized role get an empty menu rather than an error: the caller
// already passed the guard, so rendering nothing is the safe default.
func NavigationFor(raw []string) Menu {
	role, ok := domain.PrimaryRole(raw)
	if !ok {
		return Menu{}
	}
	switch role {
	case domain.RoleAdmin:
		return Menu{Role: role, Items: adminMenu}
	case domain.RoleLecturer:
		return Menu{Role: role, Items: lecturerMenu, Expanded: lecturerExpanded}
	case domain.RoleStudent:
		return Menu{Role: role, Items: studentMenu}
	default:
		return Menu{Role: role}
	}
}
