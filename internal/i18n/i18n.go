// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// supported lists the locales the catalog carries, most preferred first.
var supported = []language.Tag{
	language.English,
	language.Vietnamese,
}

var (
	mu      sync.RWMutex
	printer = message.NewPrinter(language.English)
)

// SetLocale switches the active catalog. The value can be anything a user
// would put in a config file or LANG variable ("vi", "vi-VN", "en_US.UTF-8");
// unknown locales fall back to English.
func SetLocale(locale string) {
	matcher := language.NewMatcher(supported)
	tag, _ := language.MatchStrings(matcher, locale)

	mu.Lock()
	printer = message.NewPrinter(tag)
	mu.Unlock()
}

// T formats a catalog message in the active locale.
func T(format string, args ...interface{}) string {
	mu.RLock()
	p := printer
	mu.RUnlock()
	return p.Sprintf(format, args...)
}

// translations holds the Vietnamese side of the catalog. Keys are the
// English messages used throughout the client.
var translations = []struct {
	key string
	vi  string
}{
	{"Phone number must be exactly 10 digits.", "Số điện thoại phải có đúng 10 chữ số."},
	{"Password must be at least 6 characters.", "Mật khẩu phải có ít nhất 6 ký tự."},
	{"Passwords do not match.", "Mật khẩu nhập lại không khớp."},
	{"Full name must be at least 3 characters.", "Họ tên phải có ít nhất 3 ký tự."},
	{"Email address looks invalid.", "Địa chỉ email không hợp lệ."},
	{"All fields are required.", "Vui lòng điền đầy đủ thông tin."},
	{"Enter all 6 digits of the code.", "Vui lòng nhập đủ 6 chữ số của mã xác thực."},
	{"Cannot connect to the server. Check your connection and try again.", "Không thể kết nối máy chủ. Vui lòng kiểm tra kết nối và thử lại."},
	{"Sign in failed. Please try again.", "Đăng nhập thất bại. Vui lòng thử lại."},
	{"Registration failed. Please try again.", "Đăng ký thất bại. Vui lòng thử lại."},
	{"Verification failed. Please try again.", "Xác thực thất bại. Vui lòng thử lại."},
	{"Could not send the code. Please try again.", "Không gửi được mã. Vui lòng thử lại."},
	{"Could not change the password. Please try again.", "Không đổi được mật khẩu. Vui lòng thử lại."},
	{"The server response was malformed. Please try again.", "Phản hồi từ máy chủ không hợp lệ. Vui lòng thử lại."},
	{"Resending the registration code is not supported.", "Gửi lại mã đăng ký chưa được hỗ trợ."},
	{"Code verified. Returning to sign in.", "Xác thực thành công. Quay lại đăng nhập."},
	{"Password changed. Sign in with your new password.", "Đổi mật khẩu thành công. Hãy đăng nhập bằng mật khẩu mới."},
	{"Account created. Enter the code we sent to %s.", "Tạo tài khoản thành công. Nhập mã đã gửi tới %s."},
	{"Resend available in %ds.", "Gửi lại sau %d giây."},
	{"Signed in as %s.", "Đã đăng nhập với số %s."},
	{"Signed out.", "Đã đăng xuất."},
	{"Not signed in.", "Chưa đăng nhập."},
	{"Phone number", "Số điện thoại"},
	{"Password", "Mật khẩu"},
	{"Full name", "Họ và tên"},
	{"Email", "Email"},
	{"Confirm password", "Nhập lại mật khẩu"},
	{"New password", "Mật khẩu mới"},
	{"Sign in", "Đăng nhập"},
	{"Forgot password", "Quên mật khẩu"},
	{"Create account", "Tạo tài khoản"},
	{"Verify your phone", "Xác thực số điện thoại"},
	{"Enter the reset code", "Nhập mã đặt lại mật khẩu"},
	{"Choose a new password", "Chọn mật khẩu mới"},
	{"beauty and wellness bookings", "đặt lịch làm đẹp và chăm sóc sức khỏe"},
	{"Working...", "Đang xử lý..."},
	{"Code sent to %s", "Đã gửi mã tới %s"},
	{"Press Ctrl+R to resend the code", "Nhấn Ctrl+R để gửi lại mã"},
	{"We sent a 6-digit code to your phone.", "Chúng tôi đã gửi mã 6 chữ số tới điện thoại của bạn."},
	{"Code re-sent. Check your messages.", "Đã gửi lại mã. Vui lòng kiểm tra tin nhắn."},
	{"Account verified. Sign in to continue.", "Tài khoản đã xác thực. Đăng nhập để tiếp tục."},
	{"The server did not return a reset code. Please try again later.", "Máy chủ không trả về mã đặt lại. Vui lòng thử lại sau."},
	{"The request timed out. Please try again.", "Yêu cầu quá thời gian chờ. Vui lòng thử lại."},
	{"Something went wrong. Please try again.", "Đã có lỗi xảy ra. Vui lòng thử lại."},
	{"Browse", "Khám phá"},
	{"Search", "Tìm kiếm"},
	{"Bookings", "Lịch hẹn"},
	{"Favorites", "Yêu thích"},
	{"Alerts", "Thông báo"},
	{"Profile", "Tài khoản"},
	{"Search services", "Tìm dịch vụ"},
	{"Offline. Showing saved data.", "Ngoại tuyến. Hiển thị dữ liệu đã lưu."},
	{"No services match %q.", "Không có dịch vụ nào khớp với %q."},
	{"Booking created.", "Đã tạo lịch hẹn."},
	{"Booking cancelled.", "Đã hủy lịch hẹn."},
	{"Added to favorites.", "Đã thêm vào yêu thích."},
	{"Removed from favorites.", "Đã xóa khỏi yêu thích."},
	{"Profile updated.", "Đã cập nhật tài khoản."},
	{"Thanks for the review.", "Cảm ơn bạn đã đánh giá."},
	{"Enter the start time as 2026-09-01T10:00:00Z.", "Nhập thời gian bắt đầu theo dạng 2026-09-01T10:00:00Z."},
	{"Name cannot be empty.", "Tên không được để trống."},
	{"All categories", "Tất cả danh mục"},
	{"No services here yet.", "Chưa có dịch vụ nào."},
	{"No bookings yet. Press b on a service to book.", "Chưa có lịch hẹn. Nhấn b trên một dịch vụ để đặt."},
	{"No favorites yet. Press f on a service to save it.", "Chưa có mục yêu thích. Nhấn f trên một dịch vụ để lưu."},
	{"No notifications.", "Không có thông báo."},
	{"Start time (RFC 3339):", "Thời gian bắt đầu (RFC 3339):"},
	{"Your name:", "Tên của bạn:"},
	{"%d min", "%d phút"},
	{"Reviews", "Đánh giá"},
	{"Loading...", "Đang tải..."},
	{"Press Enter to search.", "Nhấn Enter để tìm kiếm."},
	{"Staff", "Nhân viên"},
	{"Services", "Dịch vụ"},
	{"Categories", "Danh mục"},
	{"Ratings", "Đánh giá"},
	{"Booking updated.", "Đã cập nhật lịch hẹn."},
	{"Service saved.", "Đã lưu dịch vụ."},
	{"Service deleted.", "Đã xóa dịch vụ."},
	{"Category saved.", "Đã lưu danh mục."},
	{"Category deleted.", "Đã xóa danh mục."},
	{"Category ID must be a positive number.", "Mã danh mục phải là số dương."},
	{"Price must be a positive number.", "Giá phải là số dương."},
	{"Duration must be a positive number.", "Thời lượng phải là số dương."},
	{"Name", "Tên"},
	{"Category ID", "Mã danh mục"},
	{"Price (VND)", "Giá (VND)"},
	{"Duration (minutes)", "Thời lượng (phút)"},
	{"New service", "Dịch vụ mới"},
	{"Edit service", "Sửa dịch vụ"},
	{"New category", "Danh mục mới"},
	{"Edit category", "Sửa danh mục"},
	{"No bookings.", "Không có lịch hẹn."},
	{"No categories yet.", "Chưa có danh mục."},
	{"No ratings yet.", "Chưa có đánh giá."},
	{"The admin console is not available in the terminal app. Use the web dashboard.", "Bảng quản trị không có trong ứng dụng terminal. Vui lòng dùng trang quản trị web."},
	{"Press Ctrl+L to sign out or q to quit.", "Nhấn Ctrl+L để đăng xuất hoặc q để thoát."},
}

func init() {
	for _, tr := range translations {
		// Fallback: English keys are their own message.
		message.SetString(language.English, tr.key, tr.key)
		message.SetString(language.Vietnamese, tr.key, tr.vi)
	}
}
