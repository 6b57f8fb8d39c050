package cv

import (
	"image"
	"slices"

	"gocv.io/x/gocv"
)

// stats 矩阵列: 左、上、宽、高、面积
const (
	statLeft = iota
	statTop
	statWidth
	statHeight
)

// LabelRegions 连通区域标记，返回每个前景区域的外接矩形，按 (上, 左) 排序
//
// connectivity 为 4 或 8，其他值按 4 处理。
func LabelRegions(mask *Bitmap, connectivity int) ([]image.Rectangle, error) {
	if mask.Empty() || mask.Count() == 0 {
		return nil, nil
	}
	if connectivity != 8 {
		connectivity = 4
	}

	src, err := BitmapToMat(mask)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStatsWithParams(src, &labels, &stats, &centroids,
		connectivity, gocv.MatTypeCV32S, gocv.CCL_DEFAULT)

	// 标签 0 为背景
	rects := make([]image.Rectangle, 0, max(n-1, 0))
	for i := 1; i < n; i++ {
		x := int(stats.GetIntAt(i, statLeft))
		y := int(stats.GetIntAt(i, statTop))
		w := int(stats.GetIntAt(i, statWidth))
		h := int(stats.GetIntAt(i, statHeight))
		rects = append(rects, image.Rect(x, y, x+w, y+h))
	}

	slices.SortFunc(rects, func(a, b image.Rectangle) int {
		if a.Min.Y != b.Min.Y {
			return a.Min.Y - b.Min.Y
		}
		return a.Min.X - b.Min.X
	})
	return rects, nil
}
