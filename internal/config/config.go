package config

import "net/http/cookiejar"

type Config struct {
	Elasticsearch struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Address  string `json:"address"`
		Index    string `json:"index"`
	} `json:"elasticsearch"`

	Rod struct {
		UserDataDir          string `json:"user_data_dir"`
		Headless             bool   `json:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features"`
		Incognito            bool   `json:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox"`
		UserAgent            string `json:"user_agent"`
		Leakless             bool   `json:"leakless"`
		Bin                  string `json:"bin"`
		Stealth              bool   `json:"stealth"`
		Trace                bool   `json:"trace"`
	} `json:"rod"`

	Chromedp struct {
		LifeTime             int    `json:"life_time"`
		UserDataDir          string `json:"user_data_dir"`
		Headless             bool   `json:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features"`
		Incognito            bool   `json:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox"`
		UserAgent            string `json:"user_agent"`
	} `json:"chromedp"`

	Playwright struct {
		Install   bool   `json:"install"`
		Headless  bool   `json:"headless"`
		UserAgent string `json:"user_agent"`
	} `json:"playwright"`

	Colly struct {
		UserAgent        string             `json:"user_agent"`
		IgnoreRobotsTxt  bool               `json:"ignore_robots_txt"`
		Delay            int                `json:"delay"`
		RandomDelay      int                `json:"random_delay"`
		EnableCookieJar  bool               `json:"enable_cookie_jar"`
		CookieJarOptions *cookiejar.Options `json:"cookie_jar_options"`
	} `json:"colly"`

	// Seatmap 座位图抓取参数
	// 指针字段区分"未配置"和显式的0,未配置时由finalize填默认值
	Seatmap struct {
		Url                    string   `json:"url"`
		Strategy               string   `json:"strategy"`
		SvgSelector            string   `json:"svg_selector"`
		SeatSelector           string   `json:"seat_selector"`
		SeatThreshold          *int     `json:"seat_threshold"`
		StableSamples          *int     `json:"stable_samples"`
		PollIntervalMs         int      `json:"poll_interval_ms"`
		WaitTimeoutSeconds     int      `json:"wait_timeout_seconds"`
		NavigateTimeoutSeconds int      `json:"navigate_timeout_seconds"`
		SettleDelaySeconds     *int     `json:"settle_delay_seconds"`
		ScrollRatio            *float64 `json:"scroll_ratio"`
		ScrollDelaySeconds     *int     `json:"scroll_delay_seconds"`
	} `json:"seatmap"`

	Output struct {
		JsonPath      string `json:"json_path"`
		SnapshotPath  string `json:"snapshot_path"`
		Elasticsearch bool   `json:"elasticsearch"`
	} `json:"output"`
}
