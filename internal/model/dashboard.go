package model

// DashboardStats are the platform totals shown on the dashboard.
type DashboardStats struct {
	TotalUsers        int `json:"totalUsers"`
	TotalPosts        int `json:"totalPosts"`
	TotalComments     int `json:"totalComments"`
	TotalAppointments int `json:"totalAppointments"`
	TotalChildren     int `json:"totalChildren"`
	TotalChatRooms    int `json:"totalChatRooms"`
	PendingPosts      int `json:"pendingPosts"`
	PendingComments   int `json:"pendingComments"`
	FlaggedMessages   int `json:"flaggedMessages"`
	ActiveUsers24h    int `json:"activeUsers24h"`
	ActiveUsers7d     int `json:"activeUsers7d"`
	ActiveUsers30d    int `json:"activeUsers30d"`
}

// Point is one sample of a growth series.
type Point struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Engagement struct {
	TotalLikes    int `json:"totalLikes"`
	TotalComments int `json:"totalComments"`
	TotalViews    int `json:"totalViews"`
}

// Analytics holds the growth series for the selected window.
type Analytics struct {
	UserGrowth []Point    `json:"userGrowth"`
	PostGrowth []Point    `json:"postGrowth"`
	Engagement Engagement `json:"engagement"`
}

// AnalyticsWindows are the day ranges the analytics page offers.
var AnalyticsWindows = []int{7, 30, 90, 365}

// DefaultAnalyticsWindow is used until another window is picked.
const DefaultAnalyticsWindow = 30

// ValidAnalyticsWindow reports whether days is one of AnalyticsWindows.
func ValidAnalyticsWindow(days int) bool {
	for _, d := range AnalyticsWindows {
		if d == days {
			return true
		}
	}
	return false
}
